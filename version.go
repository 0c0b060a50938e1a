// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "fmt"

// JavaVersion identifies the class file format version, i.e. the pair of
// major/minor numbers every class file carries right after the magic. The
// named constants cover every major version the JVM specification has
// shipped (1.1 through 21); any other pair decodes into the same struct,
// for which IsNamed reports false.
type JavaVersion struct {
	Minor uint16
	Major uint16
}

// Named versions, keyed by major number (JVMS table 4.1-A).
var (
	V1_1 = JavaVersion{Minor: 3, Major: 45}
	V1_2 = JavaVersion{Minor: 0, Major: 46}
	V1_3 = JavaVersion{Minor: 0, Major: 47}
	V1_4 = JavaVersion{Minor: 0, Major: 48}
	V5   = JavaVersion{Minor: 0, Major: 49}
	V6   = JavaVersion{Minor: 0, Major: 50}
	V7   = JavaVersion{Minor: 0, Major: 51}
	V8   = JavaVersion{Minor: 0, Major: 52}
	V9   = JavaVersion{Minor: 0, Major: 53}
	V10  = JavaVersion{Minor: 0, Major: 54}
	V11  = JavaVersion{Minor: 0, Major: 55}
	V12  = JavaVersion{Minor: 0, Major: 56}
	V13  = JavaVersion{Minor: 0, Major: 57}
	V14  = JavaVersion{Minor: 0, Major: 58}
	V15  = JavaVersion{Minor: 0, Major: 59}
	V16  = JavaVersion{Minor: 0, Major: 60}
	V17  = JavaVersion{Minor: 0, Major: 61}
	V18  = JavaVersion{Minor: 0, Major: 62}
	V19  = JavaVersion{Minor: 0, Major: 63}
	V20  = JavaVersion{Minor: 0, Major: 64}
	V21  = JavaVersion{Minor: 0, Major: 65}
)

// majorVersionNames maps a major version number to its display name, for
// String() and the CLI dumper. Only the 45..=65 range (V1_1..V21) has a
// name; anything outside it is rendered as "major.minor (custom)".
var majorVersionNames = map[uint16]string{
	45: "1.1", 46: "1.2", 47: "1.3", 48: "1.4",
	49: "5", 50: "6", 51: "7", 52: "8",
	53: "9", 54: "10", 55: "11", 56: "12",
	57: "13", 58: "14", 59: "15", 60: "16",
	61: "17", 62: "18", 63: "19", 64: "20",
	65: "21",
}

// IsNamed reports whether v falls within the 45..=65 major range that has
// a dedicated JVMS name, as opposed to being a Custom escape hatch.
func (v JavaVersion) IsNamed() bool {
	_, ok := majorVersionNames[v.Major]
	return ok
}

// String renders the version as "major.minor" followed by its release
// name, e.g. "52.0 (Java 8)" for V8, or by "(custom)" for unnamed
// versions, e.g. "9999.1 (custom)".
func (v JavaVersion) String() string {
	if name, ok := majorVersionNames[v.Major]; ok {
		return fmt.Sprintf("%d.%d (Java %s)", v.Major, v.Minor, name)
	}
	return fmt.Sprintf("%d.%d (custom)", v.Major, v.Minor)
}

// Packed returns the version packed into a single u32, minor in the high
// 16 bits and major in the low 16 bits, matching how some JVM tooling
// reports class file versions as one number.
func (v JavaVersion) Packed() uint32 {
	return uint32(v.Minor)<<16 | uint32(v.Major)
}

// VersionFromPacked is the inverse of Packed. The mapping is total: every
// u32 round-trips to a JavaVersion and back.
func VersionFromPacked(packed uint32) JavaVersion {
	return JavaVersion{
		Minor: uint16(packed >> 16),
		Major: uint16(packed & 0xFFFF),
	}
}

// DecodeJavaVersion reads the minor_version/major_version pair that
// follows the magic number.
func DecodeJavaVersion(r *Reader) (JavaVersion, error) {
	minor, err := r.ReadU16()
	if err != nil {
		return JavaVersion{}, err
	}
	major, err := r.ReadU16()
	if err != nil {
		return JavaVersion{}, err
	}
	return JavaVersion{Minor: minor, Major: major}, nil
}

// Encode writes the minor_version/major_version pair.
func (v JavaVersion) Encode(w *Writer) {
	w.WriteU16(v.Minor)
	w.WriteU16(v.Major)
}
