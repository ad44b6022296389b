package catalog_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-api/internal/catalog"
	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
)

type CatalogTestSuite struct {
	suite.Suite
	catalog *catalog.Catalog
}

func (s *CatalogTestSuite) SetupTest() {
	cat, err := catalog.Load()
	s.Require().NoError(err)
	s.catalog = cat
}

func (s *CatalogTestSuite) TestEmbeddedCatalogLoads() {
	s.NotEmpty(s.catalog.Anomalies)
	s.NotEmpty(s.catalog.Realities)
	s.NotEmpty(s.catalog.Functions)
	s.NotEmpty(s.catalog.Bonuses)
	s.Equal(agency.RelationshipTypes, s.catalog.RelationshipTypes)
}

func (s *CatalogTestSuite) TestEveryFunctionGrantsPermissions() {
	for _, fn := range s.catalog.Functions {
		s.NotEmpty(fn.Directive, fn.Name)
		s.GreaterOrEqual(len(fn.Perms), 2, fn.Name)
	}
}

func (s *CatalogTestSuite) TestQuestionnaireTextIsParsedWithIDs() {
	fn, ok := s.catalog.FindFunction("研发部")
	s.Require().True(ok)
	s.Require().Len(fn.SelfAssessment, 2)

	q := fn.SelfAssessment[0]
	s.Equal("研发部-1", q.ID)
	s.Equal("实验结果和预期完全相反，你会", q.Question)
	s.Require().Len(q.Options, 3)
	s.Equal(catalog.Option{Text: "重做三遍确认数据", Attribute: "专业"}, q.Options[0])

	found, ok := fn.FindQuestion("研发部-2")
	s.True(ok)
	s.Len(found.Options, 2)
}

func (s *CatalogTestSuite) TestExplicitQuestionIDsAreKept() {
	fn, ok := s.catalog.FindFunction("公关部")
	s.Require().True(ok)

	q, ok := fn.FindQuestion("pr-2")
	s.Require().True(ok)
	opts := q.AssessmentOptions()
	s.Equal(agency.AttributeFocus, opts[0].Attribute)
	s.Equal(agency.AttributeName(""), opts[2].Attribute)

	_, ok = fn.FindQuestion("missing")
	s.False(ok)
}

func (s *CatalogTestSuite) TestGrant() {
	fn, ok := s.catalog.FindFunction("公关部")
	s.Require().True(ok)

	grant := fn.Grant()
	s.Len(grant.Permissions, 3)
	s.Require().Len(grant.Items, 2)
	s.Equal("统一口径手册", grant.Items[0].Name)
	s.NotEmpty(grant.Items[0].Effect)

	grant.Permissions[0] = "changed"
	s.NotEqual("changed", fn.Perms[0])
}

func (s *CatalogTestSuite) TestAnomalyAbilities() {
	an, ok := s.catalog.FindAnomaly("回声")
	s.Require().True(ok)

	abilities := an.CharacterAbilities()
	s.Require().Len(abilities, 2)
	s.Equal("余响", abilities[1].Name)
	s.Equal("T2", abilities[1].Branch1Tag)
}

func (s *CatalogTestSuite) TestClassify() {
	s.Equal(catalog.Selection{Value: "照顾者", Resolved: true}, s.catalog.Classify(catalog.KindReality, "照顾者"))
	s.Equal(catalog.Selection{Value: "我自己编的", Custom: true}, s.catalog.Classify(catalog.KindAnomaly, "我自己编的"))
	s.Equal(catalog.Selection{}, s.catalog.Classify(catalog.KindFunction, ""))
}

func (s *CatalogTestSuite) TestBonusOptions() {
	opts := s.catalog.BonusOptions()
	s.Require().Len(opts, len(s.catalog.Bonuses))

	s.Equal("援手", opts[0].Label)
	s.Equal(0, opts[0].Value)
	s.Equal(s.catalog.Bonuses[0], opts[0].Description)

	last := opts[len(opts)-1]
	s.Equal("奖励 5", last.Label, "bonuses without a colon get a numbered label")

	s.Equal("情报", s.catalog.BonusLabel(1))
	s.Equal("", s.catalog.BonusLabel(agency.CustomBonusIndex))
}

func (s *CatalogTestSuite) TestLookupMisses() {
	_, ok := s.catalog.FindAnomaly("nope")
	s.False(ok)
	_, ok = s.catalog.FindReality("nope")
	s.False(ok)
	_, ok = s.catalog.FindFunction("nope")
	s.False(ok)
}

func (s *CatalogTestSuite) TestParseRejectsBadData() {
	testCases := []struct {
		name string
		yaml string
	}{
		{
			name: "duplicate function",
			yaml: "functions:\n  - name: a\n  - name: a\n",
		},
		{
			name: "unknown attribute",
			yaml: "functions:\n  - name: a\n    selfAssessment:\n      - id: q\n        question: x\n        options:\n          - text: y\n            attr: 力量\n",
		},
		{
			name: "unnamed reality",
			yaml: "realities:\n  - trigger: x\n",
		},
		{
			name: "not yaml",
			yaml: "functions: [",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := catalog.Parse([]byte(tc.yaml))
			s.Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *CatalogTestSuite) TestLoadFromFS() {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("realities:\n  - name: 测试\n    trigger: t\n    overload: o\n")},
		"b.yaml": {Data: []byte("bonuses:\n  - 一：二\n")},
	}

	cat, err := catalog.LoadFromFS(fsys)
	s.Require().NoError(err)
	s.Len(cat.Realities, 1)
	s.Equal([]string{"一：二"}, cat.Bonuses)

	_, err = catalog.LoadFromFS(fstest.MapFS{})
	s.Error(err)
}

func TestCatalogTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}
