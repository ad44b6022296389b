package exporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/exporter"
	"github.com/KirkDiggler/agency-api/internal/testutils"
	"github.com/KirkDiggler/agency-api/internal/testutils/builders"
)

type ExporterTestSuite struct {
	suite.Suite
	ctx       context.Context
	character *agency.Character
}

func (s *ExporterTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.character = testutils.CreateTestCharacter("char-1")
}

func (s *ExporterTestSuite) TestFilename() {
	date := time.Date(2025, 3, 4, 23, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		input    string
		format   exporter.Format
		expected string
	}{
		{"named", "测试特工", exporter.FormatJSON, "测试特工_2025-03-04.json"},
		{"unnamed", "", exporter.FormatJSON, "角色卡_2025-03-04.json"},
		{"whitespace only", "   ", exporter.FormatHTML, "角色卡_2025-03-04.html"},
		{"unsafe characters", "a/b:c?", exporter.FormatJSON, "a_b_c__2025-03-04.json"},
		{"decomposed input is composed", "Cafe\u0301", exporter.FormatJSON, "Caf\u00e9_2025-03-04.json"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, exporter.Filename(tc.input, date, tc.format))
		})
	}
}

func (s *ExporterTestSuite) TestJSON() {
	data, err := exporter.JSON(s.character)
	s.Require().NoError(err)
	s.True(strings.HasPrefix(string(data), "{\n  \"id\": \"char-1\""))

	var decoded agency.Character
	s.Require().NoError(json.Unmarshal(data, &decoded))
	s.Equal(s.character, &decoded)

	_, err = exporter.JSON(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ExporterTestSuite) TestHTMLEmbedsRecord() {
	s.character.Name = "<script>alert(1)</script>"

	page, err := exporter.HTML(s.ctx, s.character)
	s.Require().NoError(err)

	html := string(page)
	s.True(strings.HasPrefix(html, "<!doctype html>"))
	s.Contains(html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	s.NotContains(html, "<script>alert(1)</script>")
	s.Contains(html, "工牌")
	s.Contains(html, "专注")

	data, err := exporter.ExtractEmbedded(page)
	s.Require().NoError(err)

	var decoded agency.Character
	s.Require().NoError(json.Unmarshal(data, &decoded))
	s.Equal(s.character, &decoded)
}

func (s *ExporterTestSuite) TestHTMLSections() {
	c := builders.NewCharacterBuilder().
		WithID("char-2").
		WithName("").
		WithAttribute(agency.AttributeFocus, 2, 4).
		WithItem("item-1", "钥匙", "开门").
		WithFilledCells(agency.TrackReality, 0, 2).
		Build()
	c.ToggleAttributeMarked(agency.AttributeFocus)
	c.SetQuestion("q2", "为了家人")

	var buf bytes.Buffer
	s.Require().NoError(exporter.Page(c).Render(s.ctx, &buf))
	html := buf.String()

	s.Contains(html, "<title>"+agency.DefaultExportName+"</title>")
	s.Contains(html, "<td>专注</td><td>2</td><td>4</td><td class=\"marked\">★</td>")
	s.Contains(html, "<th>现实</th><td class=\"cells\">■□■")
	s.Contains(html, "<li><strong>钥匙</strong> ：开门</li>")
	s.Contains(html, "<dt>q2</dt><dd>为了家人</dd>")
	s.NotContains(html, "<dt>q1</dt>")
	s.Contains(html, `<script id="`+exporter.DataScriptID+`"`)
}

func (s *ExporterTestSuite) TestExtractEmbeddedErrors() {
	s.Run("no script", func() {
		_, err := exporter.ExtractEmbedded([]byte("<html></html>"))
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("broken json", func() {
		_, err := exporter.ExtractEmbedded([]byte(`<script id="character-data" type="application/json">{"id":</script>`))
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *ExporterTestSuite) TestRender() {
	s.Run("json", func() {
		var buf bytes.Buffer
		s.Require().NoError(exporter.Render(s.ctx, &buf, s.character, exporter.FormatJSON))
		s.True(json.Valid(buf.Bytes()))
	})

	s.Run("pdf is unimplemented", func() {
		var buf bytes.Buffer
		err := exporter.Render(s.ctx, &buf, s.character, exporter.FormatPDF)
		s.True(errors.IsUnimplemented(err))
		s.Zero(buf.Len())
	})

	s.Run("unknown format", func() {
		var buf bytes.Buffer
		err := exporter.Render(s.ctx, &buf, s.character, exporter.Format("docx"))
		s.True(errors.IsInvalidArgument(err))
	})
}

func TestExporterTestSuite(t *testing.T) {
	suite.Run(t, new(ExporterTestSuite))
}
