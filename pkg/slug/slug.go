// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns user-supplied names into ASCII fragments safe for object
// storage keys and URLs. Uploaded image keys embed the slug of the original
// file name so stored objects stay recognisable.
package slug

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxFileBase caps the slug kept from an uploaded file name.
const MaxFileBase = 48

// FallbackFileBase replaces a file name that slugs to nothing (e.g. "ヘラクレス.jpg").
const FallbackFileBase = "image"

// stripMarks decomposes accented letters and drops the combining marks.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// From lower-cases s, removes accents and joins the remaining ASCII letter and
// digit runs with single hyphens. Anything else becomes a separator.
func From(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var builder strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}
	return builder.String()
}

// FileBase slugs a file name without its directory and extension, capped at
// [MaxFileBase] bytes and never empty.
func FileBase(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))

	result := From(base)
	if len(result) > MaxFileBase {
		result = strings.TrimRight(result[:MaxFileBase], "-")
	}
	if result == "" {
		return FallbackFileBase
	}
	return result
}
