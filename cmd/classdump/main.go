// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	classfile "github.com/cafebabe/classfile"
)

var (
	verbose       bool
	wantConstants bool
	wantFields    bool
	wantMethods   bool
	wantAttrs     bool
	strictIndices bool
	all           bool
)

func prettyPrint(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "\t"); err != nil {
		return string(raw)
	}
	return pretty.String()
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func dumpClass(filename string, cmd *cobra.Command) {
	log.Printf("processing %s", filename)

	opts := &classfile.Options{StrictIndices: strictIndices}
	c, err := classfile.New(filename, opts)
	if err != nil {
		log.Printf("error opening %s: %v", filename, err)
		return
	}
	defer c.Close()

	thisName, _ := c.ThisClassName()
	superName, _ := c.SuperClassName()
	fmt.Printf("class %s (version %s)\n", thisName, c.Version)
	if superName != "" {
		fmt.Printf("  extends %s\n", superName)
	}
	fmt.Printf("  access flags: 0x%04x\n", uint16(c.AccessFlags))
	fmt.Printf("  interfaces: %v\n", c.InterfaceNames())

	if wantConstants {
		fmt.Println(prettyPrint(struct {
			ConstantCount uint16 `json:"constant_count"`
		}{c.ConstantPool.Count()}))
	}

	if wantFields {
		type fieldSummary struct {
			Name       string `json:"name"`
			Descriptor string `json:"descriptor"`
		}
		summaries := make([]fieldSummary, 0, len(c.Fields))
		for _, f := range c.Fields {
			name, _ := f.Name(c.ConstantPool)
			desc, _ := f.Descriptor(c.ConstantPool)
			summaries = append(summaries, fieldSummary{Name: name, Descriptor: desc})
		}
		fmt.Println(prettyPrint(summaries))
	}

	if wantMethods {
		type methodSummary struct {
			Name       string `json:"name"`
			Descriptor string `json:"descriptor"`
			HasCode    bool   `json:"has_code"`
		}
		summaries := make([]methodSummary, 0, len(c.Methods))
		for _, m := range c.Methods {
			name, _ := m.Name(c.ConstantPool)
			desc, _ := m.Descriptor(c.ConstantPool)
			summaries = append(summaries, methodSummary{Name: name, Descriptor: desc, HasCode: m.Code() != nil})
		}
		fmt.Println(prettyPrint(summaries))
	}

	if wantAttrs {
		names := make([]string, 0, len(c.Attributes))
		for _, a := range c.Attributes {
			if name, ok := c.ConstantPool.UTF8String(a.NameIndex); ok {
				names = append(names, name)
			}
		}
		fmt.Println(prettyPrint(names))
	}
}

func dump(cmd *cobra.Command, args []string) {
	if all {
		wantConstants, wantFields, wantMethods, wantAttrs = true, true, true, true
	}
	for _, path := range args {
		if !isDirectory(path) {
			dumpClass(path, cmd)
			continue
		}
		filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				dumpClass(p, cmd)
			}
			return nil
		})
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "classdump",
		Short: "A JVM class file parser",
		Long:  "A .class file structural parser, built for tooling that needs the class-file format without a JVM.",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("classdump 0.1.0")
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Dumps one or more .class files",
		Args:  cobra.MinimumNArgs(1),
		Run:   dump,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	dumpCmd.Flags().BoolVarP(&wantConstants, "constants", "", false, "dump constant pool summary")
	dumpCmd.Flags().BoolVarP(&wantFields, "fields", "", false, "dump fields")
	dumpCmd.Flags().BoolVarP(&wantMethods, "methods", "", false, "dump methods")
	dumpCmd.Flags().BoolVarP(&wantAttrs, "attributes", "", false, "dump top-level attribute names")
	dumpCmd.Flags().BoolVarP(&strictIndices, "strict", "", false, "fail on dangling/wrong-kind constant pool indices")
	dumpCmd.Flags().BoolVarP(&all, "all", "", false, "dump everything")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
