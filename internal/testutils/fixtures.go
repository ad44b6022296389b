package testutils

import (
	"time"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
)

// TestCharacterName is the default character name for test fixtures
const TestCharacterName = "测试特工"

// FixedTime is the time used by fixtures
var FixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// CreateTestCharacter creates a character with a name and a few filled fields
func CreateTestCharacter(id string) *agency.Character {
	c := agency.NewCharacter(id, FixedTime)
	c.Name = TestCharacterName
	c.Pronouns = "她"
	c.SetAttributeCurrent(agency.AttributeFocus, 2)
	c.ToggleProgressFilled(agency.TrackFunctional, 0)
	c.AddItem(agency.Item{ID: id + "-item", Name: "工牌", Effect: "证明身份"})
	return c
}

// LegacyRecord returns a v1 record with the short keys used by the first release
func LegacyRecord() map[string]any {
	return map[string]any{
		"id":               "legacy-1",
		"pName":            "老特工",
		"pPronouns":        "他",
		"pGenderPronoun":   "他/him",
		"pAnom":            "回声",
		"pReal":            "照顾者",
		"pFunc":            "公关部",
		"perm1":            "发言",
		"perm2":            "调用媒体",
		"perm3":            "保密协议",
		"permCounts":       []any{float64(1), float64(0), float64(2)},
		"pComm":            float64(3),
		"pRep":             float64(1),
		"mvpCount":         float64(2),
		"watchCount":       float64(0),
		"attrs":            map[string]any{"专注": map[string]any{"current": float64(2), "max": float64(4), "marked": true}},
		"pf":               []any{float64(0), float64(1)},
		"pf_ign":           []any{float64(2)},
		"pr":               []any{},
		"pr_ign":           []any{float64(0), float64(1)},
		"collapseProgress": []any{true, false, false, false, true},
		"anomSlots":        float64(2),
		"realSlots":        float64(1),
		"anoms":            []any{map[string]any{"name": "回声", "notes": "夜里更强"}},
		"reals":            []any{map[string]any{"name": "照顾者", "notes": ""}},
		"items":            []any{map[string]any{"name": "手电筒", "effect": "照明"}},
		"notes":            []any{"第一条", "第二条"},
		"qs":               map[string]any{"q1": "为了钱", "q9": "没有"},
	}
}
