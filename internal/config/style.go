package config

import (
	"path/filepath"
	"regexp"
)

// ActiveRules are the cpplint checks that are enabled. Everything else is
// disabled. See cpplint.py for the full list.
var ActiveRules = []string{
	"build/class",
	"build/deprecated",
	"build/endif_comment",
	"readability/todo",
	"readability/namespace",
	"runtime/vlog",
	"whitespace/blank_line",
	"whitespace/comma",
	"whitespace/end_of_line",
	"whitespace/ending_newline",
	"whitespace/forcolon",
	"whitespace/indent",
	"whitespace/line_length",
	"whitespace/operators",
	"whitespace/semicolon",
	"whitespace/tab",
	"whitespace/todo",
}

// SourceDirs are the root source paths, traversed recursively. They are
// relative to the root of the mesos source tree.
var SourceDirs = []string{
	"src",
	"include",
	filepath.Join("3rdparty", "libprocess"),
}

// ExcludeFiles matches paths that are never checked: bundled 3rdparty
// libraries, machine generated protobuf sources and documentation.
var ExcludeFiles = regexp.MustCompile(
	`(protobuf-2\.4\.1|gmock-1\.6\.0|glog-0\.3\.3|boost-1\.53\.0|libev-4\.15|java/jni|\.pb\.cc|\.pb\.h|\.md)`)

// SourceFiles matches the file names of C++ sources and headers.
var SourceFiles = regexp.MustCompile(`\.(cpp|hpp|cc|h)$`)
