package agency_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
)

type CharacterTestSuite struct {
	suite.Suite
	now       time.Time
	character *agency.Character
	nextID    int
}

func (s *CharacterTestSuite) SetupTest() {
	s.now = time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	s.character = agency.NewCharacter("char-1", s.now)
	s.nextID = 0
}

func (s *CharacterTestSuite) newID() string {
	s.nextID++
	return fmt.Sprintf("item-%d", s.nextID)
}

func (s *CharacterTestSuite) TestNewCharacterDefaults() {
	c := s.character

	s.Equal("char-1", c.GetID())
	s.Equal(agency.EntityType, c.GetType())
	s.Equal(agency.CurrentVersion, c.Version)
	s.Equal("2025-03-14T09:26:53.589Z", c.CreatedAt)
	s.Equal(c.CreatedAt, c.UpdatedAt)
	s.Len(c.Attributes, 9)
	for _, name := range agency.AttributeNames {
		s.Equal(agency.AttributeValue{Current: 0, Max: 3}, c.Attributes[name])
	}
	s.Equal([]string{"", "", ""}, c.Permissions)
	s.Len(c.Notes, agency.DefaultNoteCount)
	s.Len(c.Questions, agency.QuestionCount)
	s.Equal([]bool{false, false, false, false}, c.CollapseProgress.Slots)
	s.Equal(1, c.AnomalySlots)
	s.Equal(1, c.RealitySlots)
	s.Empty(c.Anomalies)
	s.NotNil(c.Anomalies)
	s.Nil(c.SelfAssessment)
}

func (s *CharacterTestSuite) TestTouch() {
	s.character.Touch(s.now.Add(time.Second))
	s.Equal("2025-03-14T09:26:54.589Z", s.character.UpdatedAt)
	s.Equal("2025-03-14T09:26:53.589Z", s.character.CreatedAt)
}

func (s *CharacterTestSuite) TestCloneIsDeep() {
	s.character.AddItem(agency.Item{ID: "i1", Name: "手电筒"})
	clone := s.character.Clone()
	s.Equal(s.character, clone)

	clone.Items[0].Name = "changed"
	clone.Attributes[agency.AttributeFocus] = agency.AttributeValue{Current: 2, Max: 3}

	s.Equal("手电筒", s.character.Items[0].Name)
	s.Equal(0, s.character.Attributes[agency.AttributeFocus].Current)
}

func (s *CharacterTestSuite) TestPermissionCounts() {
	s.Run("decrement at zero is a no-op", func() {
		s.False(s.character.DecrementPermissionCount(0))
		s.Equal(0, s.character.PermissionCounts.Perm1)
	})

	s.Run("increment then decrement", func() {
		s.True(s.character.IncrementPermissionCount(2))
		s.True(s.character.IncrementPermissionCount(2))
		s.True(s.character.DecrementPermissionCount(2))
		s.Equal(1, s.character.PermissionCounts.Perm3)
	})

	s.Run("out of range index", func() {
		s.False(s.character.IncrementPermissionCount(3))
		s.False(s.character.IncrementPermissionCount(-1))
	})
}

func (s *CharacterTestSuite) TestCountersFloorAtZero() {
	s.True(s.character.SetCommendations(4))
	s.True(s.character.SetCommendations(-2))
	s.Equal(0, s.character.Commendations)

	s.True(s.character.SetReprimands(2))
	s.Equal(2, s.character.Reprimands)
	s.False(s.character.SetReprimands(2))

	s.character.IncrementMvpCount()
	s.character.IncrementWatchCount()
	s.character.IncrementWatchCount()
	s.Equal(1, s.character.MvpCount)
	s.Equal(2, s.character.WatchCount)
}

func (s *CharacterTestSuite) TestSetQuestion() {
	s.True(s.character.SetQuestion("q3", "因为好奇"))
	s.Equal("因为好奇", s.character.Questions["q3"])
	s.False(s.character.SetQuestion("q3", "因为好奇"))
	s.False(s.character.SetQuestion("q10", "nope"))
	s.NotContains(s.character.Questions, "q10")
}

func (s *CharacterTestSuite) TestSetPermission() {
	s.True(s.character.SetPermission(1, "进入档案室"))
	s.Equal("进入档案室", s.character.Permissions[1])
	s.False(s.character.SetPermission(3, "x"))
}

func (s *CharacterTestSuite) TestSetFunctionType() {
	grant := &agency.FunctionGrant{
		Permissions: []string{"权限一", "权限二", "权限三"},
		Items: []agency.GrantedItem{
			{Name: "工牌", Effect: "证明身份"},
			{Name: "对讲机", Effect: "保持联络"},
		},
	}

	s.Run("applies permissions and items", func() {
		s.True(s.character.SetFunctionType("公关部", grant, s.newID))

		s.Equal("公关部", s.character.FunctionType)
		s.Equal([]string{"权限一", "权限二", "权限三"}, s.character.Permissions)
		s.Require().Len(s.character.Items, 2)
		for _, it := range s.character.Items {
			s.True(it.IsFromFunction)
			s.Equal("公关部", it.Source)
			s.NotEmpty(it.ID)
		}
	})

	s.Run("reapplying the same function adds nothing", func() {
		s.False(s.character.SetFunctionType("公关部", grant, s.newID))
		s.Len(s.character.Items, 2)
	})

	s.Run("switching functions keeps earlier items", func() {
		other := &agency.FunctionGrant{
			Permissions: []string{"a", "b"},
			Items:       []agency.GrantedItem{{Name: "工牌", Effect: "重复"}, {Name: "钥匙"}},
		}
		s.True(s.character.SetFunctionType("研发部", other, s.newID))

		s.Equal([]string{"权限一", "权限二", "权限三"}, s.character.Permissions, "fewer than three permissions leaves them alone")
		s.Require().Len(s.character.Items, 3)
		s.Equal("钥匙", s.character.Items[2].Name)
		s.Equal("研发部", s.character.Items[2].Source)
	})

	s.Run("a player item with the same name does not block the grant", func() {
		c := agency.NewCharacter("char-2", s.now)
		c.AddItem(agency.Item{ID: "own", Name: "工牌"})
		c.SetFunctionType("公关部", grant, s.newID)
		s.Len(c.Items, 3)
	})

	s.Run("nil grant only sets the name", func() {
		c := agency.NewCharacter("char-3", s.now)
		s.True(c.SetFunctionType("自由职业", nil, s.newID))
		s.Empty(c.Items)
		s.Equal([]string{"", "", ""}, c.Permissions)
	})
}

func (s *CharacterTestSuite) TestNormalizeClampsAttributes() {
	testCases := []struct {
		name string
		in   agency.AttributeValue
		want agency.AttributeValue
	}{
		{name: "in range", in: agency.AttributeValue{Current: 2, Max: 4}, want: agency.AttributeValue{Current: 2, Max: 4}},
		{name: "above max", in: agency.AttributeValue{Current: 9, Max: 4}, want: agency.AttributeValue{Current: 4, Max: 4}},
		{name: "negative", in: agency.AttributeValue{Current: -2, Max: 4}, want: agency.AttributeValue{Current: 0, Max: 4}},
		{name: "max below one", in: agency.AttributeValue{Current: 3, Max: 0, Marked: true}, want: agency.AttributeValue{Current: 1, Max: 1, Marked: true}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			c := agency.NewCharacter("char-n", s.now)
			c.Attributes[agency.AttributeMystique] = tc.in

			c.Normalize()

			s.Equal(tc.want, c.Attributes[agency.AttributeMystique])
		})
	}
}

func TestCharacterTestSuite(t *testing.T) {
	suite.Run(t, new(CharacterTestSuite))
}
