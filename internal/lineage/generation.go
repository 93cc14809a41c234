// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage

import (
	"regexp"
	"strconv"
	"strings"
)

// # Filial Generation Codes

// Prefix distinguishes wild-caught (WF) from captive-bred (CBF) lineage.
type Prefix string

const (
	PrefixWF  Prefix = "WF"
	PrefixCBF Prefix = "CBF"
)

var (
	generationPrefix = regexp.MustCompile(`^[A-Za-z]+`)
	generationNumber = regexp.MustCompile(`\d+$`)
)

// Generation is a parsed code such as WF2 or CBF5.
type Generation struct {
	Prefix Prefix `json:"prefix"`
	Number int    `json:"number"`
}

func (generation Generation) String() string {
	return string(generation.Prefix) + strconv.Itoa(generation.Number)
}

// ParseGeneration reads the leading letters as the prefix and the trailing
// digits as the number, independently. A prefix other than WF becomes CBF and
// missing or out of range digits become 0, so "WF-3" is WF3 and "F2" is CBF2.
func ParseGeneration(raw string) Generation {
	code := strings.TrimSpace(raw)

	generation := Generation{Prefix: PrefixCBF}
	if strings.EqualFold(generationPrefix.FindString(code), string(PrefixWF)) {
		generation.Prefix = PrefixWF
	}
	if digits := generationNumber.FindString(code); digits != "" {
		if number, err := strconv.Atoi(digits); err == nil {
			generation.Number = number
		}
	}
	return generation
}

/*
Combine derives the offspring code from an optional father and the mother.

The prefix stays WF only when a father is present and both parents are WF.
Mixed parents and unknown fathers give CBF. The number is max(father, mother)+1,
or mother+1 without a father. When reset is set, the offspring start a new line
or species and the number is 1.

Parameters:
  - father: *Generation (nil when the father is unknown)
  - mother: Generation
  - reset: bool

Returns:
  - Generation: The offspring code
*/
func Combine(father *Generation, mother Generation, reset bool) Generation {
	prefix := PrefixCBF
	number := mother.Number + 1

	if father != nil {
		if father.Prefix == PrefixWF && mother.Prefix == PrefixWF {
			prefix = PrefixWF
		}
		number = max(father.Number, mother.Number) + 1
	}

	if reset {
		number = 1
	}
	return Generation{Prefix: prefix, Number: number}
}

// compareGenerations orders codes naturally: CBF before WF, then by number.
func compareGenerations(left, right Generation) int {
	if left.Prefix != right.Prefix {
		return strings.Compare(string(left.Prefix), string(right.Prefix))
	}
	return left.Number - right.Number
}
