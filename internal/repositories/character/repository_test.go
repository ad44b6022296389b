package character_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/pkg/clock"
	"github.com/KirkDiggler/agency-api/internal/pkg/idgen"
	character "github.com/KirkDiggler/agency-api/internal/repositories/character"
	"github.com/KirkDiggler/agency-api/internal/services/conversion"
	"github.com/KirkDiggler/agency-api/internal/testutils"
)

// backend builds a fresh repository plus a hook that stores raw bytes under an id
type backend func(s *RepositoryTestSuite) (character.Repository, func(id string, data []byte), func())

// RepositoryTestSuite runs the same behaviour checks against every storage backend
type RepositoryTestSuite struct {
	suite.Suite
	newBackend backend

	ctx     context.Context
	clock   *clock.Fixed
	repo    character.Repository
	putRaw  func(id string, data []byte)
	cleanup func()
}

func (s *RepositoryTestSuite) converter() conversion.Converter {
	converter, err := conversion.NewConverter(&conversion.ConverterConfig{
		Clock:       s.clock,
		IDGenerator: idgen.NewSequential("mig"),
	})
	s.Require().NoError(err)
	return converter
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewFixed(testutils.FixedTime)
	s.repo, s.putRaw, s.cleanup = s.newBackend(s)
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RepositoryTestSuite) put(id string) {
	_, err := s.repo.Put(s.ctx, character.PutInput{Character: testutils.CreateTestCharacter(id)})
	s.Require().NoError(err)
	s.clock.Advance(time.Millisecond)
}

func (s *RepositoryTestSuite) TestPutAndGet() {
	original := testutils.CreateTestCharacter("char-1")

	_, err := s.repo.Put(s.ctx, character.PutInput{Character: original})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, character.GetInput{ID: "char-1"})
	s.Require().NoError(err)
	s.Equal(original, out.Character)

	s.Run("overwrite keeps one index entry", func() {
		original.Name = "改名"
		_, err := s.repo.Put(s.ctx, character.PutInput{Character: original})
		s.Require().NoError(err)

		out, err := s.repo.Get(s.ctx, character.GetInput{ID: "char-1"})
		s.Require().NoError(err)
		s.Equal("改名", out.Character.Name)

		ids, err := s.repo.ListIDs(s.ctx, character.ListIDsInput{})
		s.Require().NoError(err)
		s.Equal([]string{"char-1"}, ids.IDs)
	})
}

func (s *RepositoryTestSuite) TestInvalidInput() {
	_, err := s.repo.Get(s.ctx, character.GetInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Put(s.ctx, character.PutInput{})
	s.True(errors.IsInvalidArgument(err))
	s.ErrorIs(err, core.ErrNilEntity)

	_, err = s.repo.Put(s.ctx, character.PutInput{Character: testutils.CreateTestCharacter("")})
	s.True(errors.IsInvalidArgument(err))
	s.ErrorIs(err, core.ErrEmptyID)

	_, err = s.repo.Delete(s.ctx, character.DeleteInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.SetCurrentID(s.ctx, character.SetCurrentIDInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, character.GetInput{ID: "nope"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.Equal("no data found", errors.GetMessage(err))
	s.ErrorIs(err, core.ErrEntityNotFound)
	s.NotErrorIs(err, core.ErrInvalidEntity)

	var entityErr *core.EntityError
	s.Require().ErrorAs(err, &entityErr)
	s.Equal("nope", entityErr.EntityID)
	s.Equal("agency_character", entityErr.EntityType)
}

func (s *RepositoryTestSuite) TestCorruptPayloadIsNotFound() {
	s.putRaw("broken", []byte("{not json"))

	_, err := s.repo.Get(s.ctx, character.GetInput{ID: "broken"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
	s.ErrorIs(err, core.ErrInvalidEntity)
	s.NotErrorIs(err, core.ErrEntityNotFound)
}

func (s *RepositoryTestSuite) TestLegacyPayloadIsMigratedOnRead() {
	raw := testutils.LegacyRecord()
	delete(raw, "id")
	data, err := json.Marshal(raw)
	s.Require().NoError(err)
	s.putRaw("old-1", data)

	out, err := s.repo.Get(s.ctx, character.GetInput{ID: "old-1"})
	s.Require().NoError(err)
	s.Equal("old-1", out.Character.ID)
	s.Equal("老特工", out.Character.Name)
	s.Equal("2.0.0", out.Character.Version)
}

func (s *RepositoryTestSuite) TestListIDsInInsertionOrder() {
	ids, err := s.repo.ListIDs(s.ctx, character.ListIDsInput{})
	s.Require().NoError(err)
	s.Empty(ids.IDs)

	for _, id := range []string{"c", "a", "b"} {
		s.put(id)
	}
	s.put("a")

	ids, err = s.repo.ListIDs(s.ctx, character.ListIDsInput{})
	s.Require().NoError(err)
	s.Equal([]string{"c", "a", "b"}, ids.IDs)
}

func (s *RepositoryTestSuite) TestCurrentID() {
	cur, err := s.repo.GetCurrentID(s.ctx, character.GetCurrentIDInput{})
	s.Require().NoError(err)
	s.Empty(cur.ID)

	s.put("a")
	s.put("b")
	_, err = s.repo.SetCurrentID(s.ctx, character.SetCurrentIDInput{ID: "b"})
	s.Require().NoError(err)

	cur, err = s.repo.GetCurrentID(s.ctx, character.GetCurrentIDInput{})
	s.Require().NoError(err)
	s.Equal("b", cur.ID)
}

func (s *RepositoryTestSuite) TestDelete() {
	s.put("a")
	s.put("b")
	_, err := s.repo.SetCurrentID(s.ctx, character.SetCurrentIDInput{ID: "a"})
	s.Require().NoError(err)

	s.Run("other record keeps current", func() {
		_, err := s.repo.Delete(s.ctx, character.DeleteInput{ID: "b"})
		s.Require().NoError(err)

		cur, err := s.repo.GetCurrentID(s.ctx, character.GetCurrentIDInput{})
		s.Require().NoError(err)
		s.Equal("a", cur.ID)
	})

	s.Run("current record clears current", func() {
		_, err := s.repo.Delete(s.ctx, character.DeleteInput{ID: "a"})
		s.Require().NoError(err)

		cur, err := s.repo.GetCurrentID(s.ctx, character.GetCurrentIDInput{})
		s.Require().NoError(err)
		s.Empty(cur.ID)

		_, err = s.repo.Get(s.ctx, character.GetInput{ID: "a"})
		s.True(errors.IsNotFound(err))

		ids, err := s.repo.ListIDs(s.ctx, character.ListIDsInput{})
		s.Require().NoError(err)
		s.Empty(ids.IDs)
	})

	s.Run("missing record is a no-op", func() {
		_, err := s.repo.Delete(s.ctx, character.DeleteInput{ID: "ghost"})
		s.NoError(err)
	})
}

func (s *RepositoryTestSuite) TestClear() {
	s.put("a")
	s.put("b")
	_, err := s.repo.SetCurrentID(s.ctx, character.SetCurrentIDInput{ID: "a"})
	s.Require().NoError(err)

	out, err := s.repo.Clear(s.ctx, character.ClearInput{})
	s.Require().NoError(err)
	s.Equal(2, out.Deleted)

	ids, err := s.repo.ListIDs(s.ctx, character.ListIDsInput{})
	s.Require().NoError(err)
	s.Empty(ids.IDs)

	cur, err := s.repo.GetCurrentID(s.ctx, character.GetCurrentIDInput{})
	s.Require().NoError(err)
	s.Empty(cur.ID)
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newBackend: func(s *RepositoryTestSuite) (character.Repository, func(string, []byte), func()) {
			client, mr, cleanup := testutils.CreateTestRedisServer(s.T())
			repo, err := character.NewRedis(&character.RedisConfig{
				Client:    client,
				Clock:     s.clock,
				Converter: s.converter(),
			})
			s.Require().NoError(err)
			return repo, redisRawWriter(s, mr), cleanup
		},
	})
}

func redisRawWriter(s *RepositoryTestSuite, mr *miniredis.Miniredis) func(string, []byte) {
	return func(id string, data []byte) {
		s.Require().NoError(mr.Set("character:"+id, string(data)))
		_, err := mr.ZAdd("character:ids", float64(s.clock.Now().UnixNano()), id)
		s.Require().NoError(err)
	}
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newBackend: func(s *RepositoryTestSuite) (character.Repository, func(string, []byte), func()) {
			path := filepath.Join(s.T().TempDir(), "characters.db")
			repo, err := character.NewSQLite(s.ctx, &character.SQLiteConfig{
				Path:      path,
				Clock:     s.clock,
				Converter: s.converter(),
			})
			s.Require().NoError(err)

			putRaw := func(id string, data []byte) {
				s.Require().NoError(repo.PutRaw(s.ctx, id, data))
			}
			return repo, putRaw, func() { _ = repo.Close() }
		},
	})
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newBackend: func(s *RepositoryTestSuite) (character.Repository, func(string, []byte), func()) {
			repo, err := character.NewInMemory(s.converter())
			s.Require().NoError(err)
			return repo, repo.PutRaw, func() {}
		},
	})
}

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) TestRedisConfig() {
	_, err := character.NewRedis(nil)
	s.Error(err)

	_, err = character.NewRedis(&character.RedisConfig{})
	s.Require().Error(err)
	s.Contains(err.Error(), "client")
	s.Contains(err.Error(), "converter")
}

func (s *ConfigTestSuite) TestSQLiteConfig() {
	_, err := character.NewSQLite(context.Background(), &character.SQLiteConfig{Path: "  "})
	s.Require().Error(err)
	s.Contains(err.Error(), "path")
}

func (s *ConfigTestSuite) TestInMemoryConfig() {
	_, err := character.NewInMemory(nil)
	s.True(errors.IsInvalidArgument(err))
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
