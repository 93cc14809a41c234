// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage

import (
	"fmt"
	"strings"

	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
)

const listingRule = "------------------------------"

// Listing is a pre-filled sale post built from selected individuals of a line.
type Listing struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ComposeSaleListing renders a sale post for individuals of one line. Individuals
// appear in management number order.
func ComposeSaleListing(tree *Tree, lineID int64, individualIDs []int64) (Listing, error) {
	line, err := tree.line(lineID)
	if err != nil {
		return Listing{}, err
	}
	if len(individualIDs) == 0 {
		return Listing{}, validate.RequiredError(FieldIndividualIDs, "Select at least one individual")
	}

	selected := make([]*Individual, 0, len(individualIDs))
	seen := map[int64]bool{}
	for _, id := range individualIDs {
		individual, err := tree.individual(id)
		if err != nil {
			return Listing{}, err
		}
		if individual.LineID != lineID {
			return Listing{}, validate.RequiredError(FieldIndividualIDs, fmt.Sprintf("Individual %s is not in line %s", individual.ManagementNumber, line.Name))
		}
		if !seen[id] {
			seen[id] = true
			selected = append(selected, individual)
		}
	}
	selected = SortIndividuals(selected, SortManagementNumber, Ascending)

	noun, verb := "individuals", "are"
	if len(selected) == 1 {
		noun, verb = "individual", "is"
	}

	blocks := make([]string, 0, len(selected))
	for _, individual := range selected {
		headWidth := "-"
		if individual.HeadWidth.Valid {
			headWidth = individual.HeadWidth.Decimal.String() + "mm"
		}
		blocks = append(blocks, strings.Join([]string{
			listingRule,
			"- Management number: " + individual.ManagementNumber,
			"- Generation: " + orDash(individual.Generation),
			"- Sex: " + string(individual.Sex),
			"- Parents: " + orDash(individual.ParentInfo),
			"- Eclosion date: " + orDash(individual.HatchDate.String()),
			"- L3 head width: " + headWidth,
			"- Notes: " + orDash(individual.Notes),
			listingRule,
		}, "\n"))
	}

	return Listing{
		Title: fmt.Sprintf("[For sale] %s: %d %s", line.Name, len(selected), noun),
		Body: "Hello, the following " + noun + " " + verb + " up for sale.\n\n" +
			strings.Join(blocks, "\n") +
			"\n\nIf you are interested, please leave a comment or send me a message.",
	}, nil
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
