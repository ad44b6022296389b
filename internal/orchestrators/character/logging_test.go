package character

import (
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
)

type LoggingTestSuite struct {
	suite.Suite
}

func (s *LoggingTestSuite) TestEntityAttrs() {
	c := agency.NewCharacter("agent-7", time.Date(2025, 7, 8, 9, 10, 11, 0, time.UTC))

	s.Equal([]any{"entity_type", "agency_character", "character_id", "agent-7", "count", 2},
		entityAttrs(c, "count", 2))
}

func (s *LoggingTestSuite) TestLoadFailure() {
	wrap := func(cause error) error {
		return errors.WrapWithCode(core.NewEntityError("get", agency.EntityType, "x", cause),
			errors.CodeNotFound, "no data found")
	}

	testCases := []struct {
		name string
		err  error
		want string
	}{
		{name: "corrupt payload", err: wrap(core.ErrInvalidEntity), want: "unreadable"},
		{name: "absent record", err: wrap(core.ErrEntityNotFound), want: "missing"},
		{name: "backend failure", err: errors.Internal("redis down"), want: "unknown"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, loadFailure(tc.err))
		})
	}
}

func TestLoggingTestSuite(t *testing.T) {
	suite.Run(t, new(LoggingTestSuite))
}
