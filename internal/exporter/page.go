package exporter

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -f page.templ

import (
	"fmt"
	"slices"
	"strings"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
)

var trackLabels = map[agency.TrackType]string{
	agency.TrackFunctional: "职能",
	agency.TrackReality:    "现实",
	agency.TrackAnomaly:    "异常",
}

func pageTitle(c *agency.Character) string {
	if c.Name == "" {
		return agency.DefaultExportName
	}
	return c.Name
}

func permissionCount(c *agency.Character, i int) int {
	counts := []int{c.PermissionCounts.Perm1, c.PermissionCounts.Perm2, c.PermissionCounts.Perm3}
	if i < 0 || i >= len(counts) {
		return 0
	}
	return counts[i]
}

func slotHeading(label string, used, slots int) string {
	return fmt.Sprintf("%s (%d/%d)", label, used, slots)
}

func collapseSummary(p agency.CollapseProgress) string {
	marked := 0
	for _, slot := range p.Slots {
		if slot {
			marked++
		}
	}
	return fmt.Sprintf("%d/%d", marked, len(p.Slots))
}

func trackCells(t *agency.ProgressTrack) string {
	return cells(agency.ProgressTrackSize, t.IsFilled, t.IsIgnored)
}

func customCells(t agency.CustomProgressTrack) string {
	filled := func(i int) bool { return slices.Contains(t.Filled, i) }
	return cells(t.Max, filled, func(int) bool { return false })
}

func bonusLabel(r agency.Relationship) string {
	switch {
	case r.HasCustomBonus():
		return joinNonEmpty("：", r.CustomBonusName, r.CustomBonusEffect)
	case r.BonusIndex != nil:
		return fmt.Sprintf("#%d", *r.BonusIndex+1)
	default:
		return ""
	}
}

func itemDetail(item agency.Item) string {
	detail := ""
	if item.Effect != "" {
		detail = "：" + item.Effect
	}
	if item.Source != "" {
		detail = joinNonEmpty(" ", detail, "("+item.Source+")")
	}
	return detail
}

func cells(n int, filled, ignored func(int) bool) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		switch {
		case filled(i):
			b.WriteRune('■')
		case ignored(i):
			b.WriteRune('×')
		default:
			b.WriteRune('□')
		}
	}
	return b.String()
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(slices.DeleteFunc(slices.Clone(parts), func(s string) bool { return s == "" }), sep)
}
