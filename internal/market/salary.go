package market

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/talentpage/internal/record"
)

var salaryTokenRe = regexp.MustCompile(`(?i)\$?[\d,]+k?`)

// aggregateSalaries parses every salary figure out of the listings and
// reduces them to formatted low/median/high. Accepts "$80,000 - $100,000",
// "$120k", and bare "80 - 100" shorthand for thousands; anything outside a
// plausible 30k..500k annual range is discarded.
func aggregateSalaries(listings []listing) record.SalaryRangeMarket {
	var salaries []int

	for _, l := range listings {
		if l.Salary == "" {
			continue
		}
		for _, token := range salaryTokenRe.FindAllString(l.Salary, -1) {
			hasK := strings.ContainsAny(token, "kK")
			cleaned := strings.Map(func(r rune) rune {
				if r >= '0' && r <= '9' {
					return r
				}
				return -1
			}, token)
			val, err := strconv.Atoi(cleaned)
			if err != nil {
				continue
			}
			if hasK {
				val *= 1000
			}
			switch {
			case val >= 30000 && val <= 500000:
				salaries = append(salaries, val)
			case val >= 30 && val <= 500:
				// Thousands written without the k.
				salaries = append(salaries, val*1000)
			}
		}
	}

	if len(salaries) == 0 {
		return record.SalaryRangeMarket{}
	}

	sort.Ints(salaries)
	return record.SalaryRangeMarket{
		Low:    FormatSalary(salaries[0]),
		Median: FormatSalary(salaries[len(salaries)/2]),
		High:   FormatSalary(salaries[len(salaries)-1]),
	}
}

// FormatSalary renders an annual figure as "$Nk".
func FormatSalary(amount int) string {
	if amount == 0 {
		return ""
	}
	if amount >= 1000 {
		return fmt.Sprintf("$%dk", (amount+500)/1000)
	}
	return fmt.Sprintf("$%d", amount)
}

// commonTags returns the eight most frequent card tags across listings.
func commonTags(listings []listing) []string {
	counts := make(map[string]int)
	var order []string
	for _, l := range listings {
		for _, tag := range l.Tags {
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > 8 {
		order = order[:8]
	}
	return order
}
