// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage

import (
	"sort"
	"time"
)

// Notice is a display-only reminder for one individual.
type Notice struct {
	IndividualID     int64  `json:"individualId"`
	LineName         string `json:"lineName"`
	ManagementNumber string `json:"managementNumber"`
	Text             string `json:"text"`
	Date             Date   `json:"date"`
}

// Overdue lists individuals whose next bottle change falls strictly before the
// calendar day of now, in now's location. A date equal to today is not overdue.
// Notices are ordered by date, then by individual id.
func Overdue(tree *Tree, now time.Time) []Notice {
	today := DateOf(now)

	notices := []Notice{}
	for _, individual := range tree.Individuals {
		due := individual.NextBottleChangeDate
		if due.IsZero() || !due.Before(today) {
			continue
		}
		line := tree.Lines[individual.LineID]
		notices = append(notices, Notice{
			IndividualID:     individual.ID,
			LineName:         line.Name,
			ManagementNumber: individual.ManagementNumber,
			Text:             line.Name + " - " + individual.ManagementNumber + ": bottle change overdue",
			Date:             due,
		})
	}

	sort.Slice(notices, func(i, j int) bool {
		if order := notices[i].Date.Compare(notices[j].Date); order != 0 {
			return order < 0
		}
		return notices[i].IndividualID < notices[j].IndividualID
	})
	return notices
}
