// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Verification type tags (JVMS §4.7.4).
const (
	VerificationTop               = 0
	VerificationInteger           = 1
	VerificationFloat             = 2
	VerificationDouble            = 3
	VerificationLong              = 4
	VerificationNull              = 5
	VerificationUninitializedThis = 6
	VerificationObject            = 7
	VerificationUninitialized     = 8
)

// VerificationTypeInfo describes the type of one local variable or
// operand stack slot at a StackMapTable frame boundary. Only Object and
// Uninitialized carry a payload (CPoolIndex and Offset respectively); the
// rest are identified by Tag alone.
type VerificationTypeInfo struct {
	Tag        uint8
	CPoolIndex uint16
	Offset     uint16
}

func decodeVerificationTypeInfo(r *Reader) (VerificationTypeInfo, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return VerificationTypeInfo{}, err
	}
	switch tag {
	case VerificationObject:
		idx, err := r.ReadU16()
		if err != nil {
			return VerificationTypeInfo{}, err
		}
		return VerificationTypeInfo{Tag: tag, CPoolIndex: idx}, nil
	case VerificationUninitialized:
		offset, err := r.ReadU16()
		if err != nil {
			return VerificationTypeInfo{}, err
		}
		return VerificationTypeInfo{Tag: tag, Offset: offset}, nil
	case VerificationTop, VerificationInteger, VerificationFloat, VerificationDouble,
		VerificationLong, VerificationNull, VerificationUninitializedThis:
		return VerificationTypeInfo{Tag: tag}, nil
	default:
		return VerificationTypeInfo{}, &UnknownTagError{Context: "verification_type_info", Value: int(tag)}
	}
}

func encodeVerificationTypeInfo(w *Writer, v VerificationTypeInfo) {
	w.WriteU8(v.Tag)
	switch v.Tag {
	case VerificationObject:
		w.WriteU16(v.CPoolIndex)
	case VerificationUninitialized:
		w.WriteU16(v.Offset)
	}
}

func decodeVerificationTypeInfoList(r *Reader, count int) ([]VerificationTypeInfo, error) {
	out := make([]VerificationTypeInfo, count)
	for i := range out {
		v, err := decodeVerificationTypeInfo(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func encodeVerificationTypeInfoList(w *Writer, list []VerificationTypeInfo) {
	for _, v := range list {
		encodeVerificationTypeInfo(w, v)
	}
}

// StackMapFrame is the closed tagged union of the 6 StackMapTable frame
// kinds (JVMS §4.7.4). FrameType records the exact byte that was decoded
// so that Encode always reproduces the smallest/most specific encoding
// the original frame used; OffsetDelta, Locals and Stack are populated
// only for the kinds that carry them.
type StackMapFrame struct {
	FrameType   uint8
	OffsetDelta uint16
	Stack       []VerificationTypeInfo // same_locals_1_stack_item(_extended), full_frame
	Locals      []VerificationTypeInfo // append_frame, full_frame
}

// Frame-kind byte ranges (JVMS §4.7.4).
const (
	FrameSameMax                      = 63
	FrameSameLocals1StackItemMin      = 64
	FrameSameLocals1StackItemMax      = 127
	frameReservedMin                  = 128
	frameReservedMax                  = 246
	FrameSameLocals1StackItemExtended = 247
	FrameChopMin                      = 248
	FrameChopMax                      = 250
	FrameSameExtended                 = 251
	FrameAppendMin                    = 252
	FrameAppendMax                    = 254
	FrameFull                         = 255
)

func decodeStackMapFrame(r *Reader) (StackMapFrame, error) {
	frameType, err := r.ReadU8()
	if err != nil {
		return StackMapFrame{}, err
	}
	switch {
	case frameType <= FrameSameMax:
		return StackMapFrame{FrameType: frameType}, nil
	case frameType <= FrameSameLocals1StackItemMax:
		stack, err := decodeVerificationTypeInfoList(r, 1)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{FrameType: frameType, Stack: stack}, nil
	case frameType >= frameReservedMin && frameType <= frameReservedMax:
		return StackMapFrame{}, &UnknownTagError{Context: "stack_map_frame frame_type (reserved)", Value: int(frameType)}
	case frameType == FrameSameLocals1StackItemExtended:
		offsetDelta, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		stack, err := decodeVerificationTypeInfoList(r, 1)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{FrameType: frameType, OffsetDelta: offsetDelta, Stack: stack}, nil
	case frameType >= FrameChopMin && frameType <= FrameChopMax:
		offsetDelta, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{FrameType: frameType, OffsetDelta: offsetDelta}, nil
	case frameType == FrameSameExtended:
		offsetDelta, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{FrameType: frameType, OffsetDelta: offsetDelta}, nil
	case frameType >= FrameAppendMin && frameType <= FrameAppendMax:
		offsetDelta, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		localsCount := int(frameType) - FrameSameExtended
		locals, err := decodeVerificationTypeInfoList(r, localsCount)
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{FrameType: frameType, OffsetDelta: offsetDelta, Locals: locals}, nil
	case frameType == FrameFull:
		offsetDelta, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		numLocals, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		locals, err := decodeVerificationTypeInfoList(r, int(numLocals))
		if err != nil {
			return StackMapFrame{}, err
		}
		numStack, err := r.ReadU16()
		if err != nil {
			return StackMapFrame{}, err
		}
		stack, err := decodeVerificationTypeInfoList(r, int(numStack))
		if err != nil {
			return StackMapFrame{}, err
		}
		return StackMapFrame{FrameType: frameType, OffsetDelta: offsetDelta, Locals: locals, Stack: stack}, nil
	default:
		return StackMapFrame{}, &UnknownTagError{Context: "stack_map_frame frame_type", Value: int(frameType)}
	}
}

func encodeStackMapFrame(w *Writer, f StackMapFrame) {
	w.WriteU8(f.FrameType)
	switch {
	case f.FrameType <= FrameSameMax:
	case f.FrameType <= FrameSameLocals1StackItemMax:
		encodeVerificationTypeInfoList(w, f.Stack)
	case f.FrameType == FrameSameLocals1StackItemExtended:
		w.WriteU16(f.OffsetDelta)
		encodeVerificationTypeInfoList(w, f.Stack)
	case f.FrameType >= FrameChopMin && f.FrameType <= FrameChopMax:
		w.WriteU16(f.OffsetDelta)
	case f.FrameType == FrameSameExtended:
		w.WriteU16(f.OffsetDelta)
	case f.FrameType >= FrameAppendMin && f.FrameType <= FrameAppendMax:
		w.WriteU16(f.OffsetDelta)
		encodeVerificationTypeInfoList(w, f.Locals)
	case f.FrameType == FrameFull:
		w.WriteU16(f.OffsetDelta)
		w.WriteU16(uint16(len(f.Locals)))
		encodeVerificationTypeInfoList(w, f.Locals)
		w.WriteU16(uint16(len(f.Stack)))
		encodeVerificationTypeInfoList(w, f.Stack)
	}
}

// NewStackMapFrame builds a frame from its high-level content, picking
// the smallest frame encoding consistent with the data: same_frame over
// same_frame_extended when offsetDelta fits in the type byte,
// same_locals_1_stack_item over its extended form likewise, and
// append_frame over full_frame when 1 to 3 locals are given with an
// empty stack. The compact kinds describe a delta, so locals carries the
// locals appended relative to the previous frame; only the full_frame
// fallback treats it as the complete list. Chop frames remove locals
// rather than describe them and cannot be inferred from content; set
// FrameType 248..=250 directly for those.
func NewStackMapFrame(offsetDelta uint16, locals, stack []VerificationTypeInfo) StackMapFrame {
	switch {
	case len(locals) == 0 && len(stack) == 0:
		if offsetDelta <= FrameSameMax {
			return StackMapFrame{FrameType: uint8(offsetDelta)}
		}
		return StackMapFrame{FrameType: FrameSameExtended, OffsetDelta: offsetDelta}
	case len(locals) == 0 && len(stack) == 1:
		if offsetDelta <= FrameSameMax {
			return StackMapFrame{FrameType: FrameSameLocals1StackItemMin + uint8(offsetDelta), Stack: stack}
		}
		return StackMapFrame{FrameType: FrameSameLocals1StackItemExtended, OffsetDelta: offsetDelta, Stack: stack}
	case len(stack) == 0 && len(locals) >= 1 && len(locals) <= 3:
		return StackMapFrame{FrameType: FrameSameExtended + uint8(len(locals)), OffsetDelta: offsetDelta, Locals: locals}
	default:
		return StackMapFrame{FrameType: FrameFull, OffsetDelta: offsetDelta, Locals: locals, Stack: stack}
	}
}

// StackMapTableAttribute gives the Code attribute's type-checking frames
// for the stack-map-based verifier (JVMS §4.7.4).
type StackMapTableAttribute struct {
	Entries []StackMapFrame
}

func (a *StackMapTableAttribute) attributeName() string { return AttrStackMapTable }
func (a *StackMapTableAttribute) encode(w *Writer) {
	w.WriteU16(uint16(len(a.Entries)))
	for _, f := range a.Entries {
		encodeStackMapFrame(w, f)
	}
}

func decodeStackMapTable(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	entries := make([]StackMapFrame, count)
	for i := range entries {
		f, err := decodeStackMapFrame(r)
		if err != nil {
			return nil, err
		}
		entries[i] = f
	}
	return &StackMapTableAttribute{Entries: entries}, nil
}
