package character_test

import (
	"context"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/repositories/character"
	conversionmock "github.com/KirkDiggler/agency-api/internal/services/conversion/mock"
	"github.com/KirkDiggler/agency-api/internal/testutils"
)

// DecodeTestSuite covers how stored payloads are handed to the converter
type DecodeTestSuite struct {
	suite.Suite
	ctx           context.Context
	ctrl          *gomock.Controller
	mockConverter *conversionmock.MockConverter
	repo          *character.InMemoryRepository
}

func (s *DecodeTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockConverter = conversionmock.NewMockConverter(s.ctrl)

	repo, err := character.NewInMemory(s.mockConverter)
	s.Require().NoError(err)
	s.repo = repo
}

func (s *DecodeTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DecodeTestSuite) TestStoredBytesGoToConverter() {
	payload := []byte(`{"pName":"旧档"}`)
	s.repo.PutRaw("old-7", payload)

	migrated := testutils.CreateTestCharacter("")
	s.mockConverter.EXPECT().Decode(payload).Return(migrated, nil)

	out, err := s.repo.Get(s.ctx, character.GetInput{ID: "old-7"})
	s.Require().NoError(err)
	s.Equal("old-7", out.Character.ID, "records without an id take their key")
}

func (s *DecodeTestSuite) TestConverterFailureIsUnreadable() {
	s.repo.PutRaw("bad", []byte(`[]`))
	s.mockConverter.EXPECT().Decode([]byte(`[]`)).Return(nil, errors.InvalidArgument("unrecognized character data"))

	_, err := s.repo.Get(s.ctx, character.GetInput{ID: "bad"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.ErrorIs(err, core.ErrInvalidEntity)

	var entityErr *core.EntityError
	s.Require().ErrorAs(err, &entityErr)
	s.Equal("bad", entityErr.EntityID)
	s.Equal(agency.EntityType, entityErr.EntityType)
	s.Equal("decode", entityErr.Op)
}

func TestDecodeTestSuite(t *testing.T) {
	suite.Run(t, new(DecodeTestSuite))
}
