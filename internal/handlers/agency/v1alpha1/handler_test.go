package v1alpha1_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/reflection"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/agency-api/internal/entities/agency"
	"github.com/KirkDiggler/agency-api/internal/errors"
	"github.com/KirkDiggler/agency-api/internal/exporter"
	"github.com/KirkDiggler/agency-api/internal/handlers/agency/v1alpha1"
	"github.com/KirkDiggler/agency-api/internal/orchestrators/character"
	charactermock "github.com/KirkDiggler/agency-api/internal/orchestrators/character/mock"
	"github.com/KirkDiggler/agency-api/internal/testutils"
)

type HandlerTestSuite struct {
	suite.Suite
	ctx         context.Context
	ctrl        *gomock.Controller
	mockService *charactermock.MockService
	handler     *v1alpha1.Handler
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.mockService = charactermock.NewMockService(s.ctrl)

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		CharacterService: s.mockService,
	})
	s.Require().NoError(err)
	s.handler = handler
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) toStruct(msg any) *structpb.Struct {
	out, err := v1alpha1.ToStruct(msg)
	s.Require().NoError(err)
	return out
}

func (s *HandlerTestSuite) fromStruct(in *structpb.Struct, msg any) {
	s.Require().NoError(v1alpha1.FromStruct(in, msg))
}

func (s *HandlerTestSuite) TestNewHandler() {
	_, err := v1alpha1.NewHandler(nil)
	s.Error(err)

	_, err = v1alpha1.NewHandler(&v1alpha1.HandlerConfig{})
	s.Error(err)
}

func (s *HandlerTestSuite) TestStructRoundTripKeepsRecord() {
	c := testutils.CreateTestCharacter("char-1")

	var out v1alpha1.CharacterResponse
	s.fromStruct(s.toStruct(&v1alpha1.CharacterResponse{Character: c}), &out)
	s.Equal(c, out.Character)
}

func (s *HandlerTestSuite) TestGetCharacter() {
	c := testutils.CreateTestCharacter("char-1")

	s.Run("success", func() {
		s.mockService.EXPECT().
			GetCharacter(s.ctx, &character.GetCharacterInput{ID: "char-1"}).
			Return(&character.GetCharacterOutput{Character: c}, nil)

		resp, err := s.handler.GetCharacter(s.ctx, s.toStruct(&v1alpha1.CharacterIDRequest{ID: "char-1"}))
		s.Require().NoError(err)

		var out v1alpha1.CharacterResponse
		s.fromStruct(resp, &out)
		s.Equal(c, out.Character)
	})

	s.Run("missing id", func() {
		_, err := s.handler.GetCharacter(s.ctx, s.toStruct(&v1alpha1.CharacterIDRequest{}))
		s.Equal(codes.InvalidArgument, status.Code(err))
	})

	s.Run("not found", func() {
		s.mockService.EXPECT().
			GetCharacter(s.ctx, &character.GetCharacterInput{ID: "gone"}).
			Return(nil, errors.NotFound("no data found"))

		_, err := s.handler.GetCharacter(s.ctx, s.toStruct(&v1alpha1.CharacterIDRequest{ID: "gone"}))
		s.Equal(codes.NotFound, status.Code(err))
	})
}

func (s *HandlerTestSuite) TestUpdateCharacter() {
	mutations := []character.Mutation{
		{Op: character.OpSetName, Value: "特工"},
		{Op: character.OpSetAttributeCurrent, Attribute: agency.AttributeFocus, Number: 2},
		{Op: character.OpAddItem, Item: &agency.Item{Name: "钥匙"}},
	}
	updated := testutils.CreateTestCharacter("char-1")

	s.Run("mutations survive the wire", func() {
		s.mockService.EXPECT().
			UpdateCharacter(s.ctx, &character.UpdateCharacterInput{ID: "char-1", Mutations: mutations}).
			Return(&character.UpdateCharacterOutput{Character: updated, Changed: true, CreatedIDs: []string{"item-1"}}, nil)

		resp, err := s.handler.UpdateCharacter(s.ctx, s.toStruct(&v1alpha1.UpdateCharacterRequest{
			ID:        "char-1",
			Mutations: mutations,
		}))
		s.Require().NoError(err)

		var out v1alpha1.UpdateCharacterResponse
		s.fromStruct(resp, &out)
		s.True(out.Changed)
		s.Equal([]string{"item-1"}, out.CreatedIDs)
		s.Equal(updated, out.Character)
	})

	s.Run("no mutations", func() {
		_, err := s.handler.UpdateCharacter(s.ctx, s.toStruct(&v1alpha1.UpdateCharacterRequest{ID: "char-1"}))
		s.Equal(codes.InvalidArgument, status.Code(err))
	})

	s.Run("slot cap", func() {
		s.mockService.EXPECT().
			UpdateCharacter(s.ctx, gomock.Any()).
			Return(nil, errors.FailedPreconditionf("all %d anomaly slots are in use", 1).WithMeta("anomaly_slots", 1))

		_, err := s.handler.UpdateCharacter(s.ctx, s.toStruct(&v1alpha1.UpdateCharacterRequest{
			ID:        "char-1",
			Mutations: []character.Mutation{{Op: character.OpAddAnomaly}},
		}))
		s.Equal(codes.FailedPrecondition, status.Code(err))
		s.Equal("all 1 anomaly slots are in use", status.Convert(err).Message())
	})

	s.Run("malformed request", func() {
		in, err := structpb.NewStruct(map[string]any{"id": "char-1", "mutations": "not a list"})
		s.Require().NoError(err)

		_, err = s.handler.UpdateCharacter(s.ctx, in)
		s.Equal(codes.InvalidArgument, status.Code(err))
	})
}

func (s *HandlerTestSuite) TestExportCharacterDefaultsToJSON() {
	s.mockService.EXPECT().
		ExportCharacter(s.ctx, &character.ExportCharacterInput{ID: "char-1", Format: exporter.FormatJSON}).
		Return(&character.ExportCharacterOutput{
			Filename:    "测试特工_2025-06-01.json",
			ContentType: "application/json",
			Data:        []byte(`{"id":"char-1"}`),
		}, nil)

	resp, err := s.handler.ExportCharacter(s.ctx, s.toStruct(&v1alpha1.ExportCharacterRequest{ID: "char-1"}))
	s.Require().NoError(err)

	var out v1alpha1.ExportCharacterResponse
	s.fromStruct(resp, &out)
	s.Equal("测试特工_2025-06-01.json", out.Filename)
	s.Equal(`{"id":"char-1"}`, out.Data)
}

func (s *HandlerTestSuite) TestImportAndShareValidation() {
	_, err := s.handler.ImportCharacter(s.ctx, s.toStruct(&v1alpha1.ImportCharacterRequest{}))
	s.Equal(codes.InvalidArgument, status.Code(err))

	_, err = s.handler.DecodeShareLink(s.ctx, s.toStruct(&v1alpha1.DecodeShareLinkRequest{}))
	s.Equal(codes.InvalidArgument, status.Code(err))
}

// The remaining tests go through a real gRPC server so the service descriptor and
// client are exercised end to end.

func (s *HandlerTestSuite) dial() *v1alpha1.Client {
	return v1alpha1.NewClient(s.connect())
}

func (s *HandlerTestSuite) connect(register ...func(*grpc.Server)) *grpc.ClientConn {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	v1alpha1.RegisterCharacterServiceServer(srv, s.handler)
	for _, r := range register {
		r(srv)
	}
	go func() { _ = srv.Serve(lis) }()
	s.T().Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })

	return conn
}

func (s *HandlerTestSuite) TestServiceDescriptor() {
	srv := grpc.NewServer()
	v1alpha1.RegisterCharacterServiceServer(srv, s.handler)

	info, ok := srv.GetServiceInfo()[v1alpha1.ServiceName]
	s.Require().True(ok)
	s.Empty(info.Metadata, "no proto file backs the service")
	s.Len(info.Methods, len(v1alpha1.CharacterServiceDesc.Methods))
}

func (s *HandlerTestSuite) TestReflectionListsService() {
	conn := s.connect(func(srv *grpc.Server) { reflection.Register(srv) })

	stream, err := reflectionpb.NewServerReflectionClient(conn).ServerReflectionInfo(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(stream.Send(&reflectionpb.ServerReflectionRequest{
		MessageRequest: &reflectionpb.ServerReflectionRequest_ListServices{ListServices: "*"},
	}))

	resp, err := stream.Recv()
	s.Require().NoError(err)

	var names []string
	for _, svc := range resp.GetListServicesResponse().GetService() {
		names = append(names, svc.GetName())
	}
	s.Contains(names, v1alpha1.ServiceName)
	s.Require().NoError(stream.CloseSend())
}

func (s *HandlerTestSuite) TestClientRoundTrip() {
	client := s.dial()
	c := testutils.CreateTestCharacter("char-1")

	s.Run("get current", func() {
		s.mockService.EXPECT().
			GetCurrentCharacter(gomock.Any(), &character.GetCurrentCharacterInput{}).
			Return(&character.GetCurrentCharacterOutput{Character: c, Created: true}, nil)

		out, err := client.GetCurrentCharacter(s.ctx)
		s.Require().NoError(err)
		s.True(out.Created)
		s.Equal(c, out.Character)
	})

	s.Run("list", func() {
		s.mockService.EXPECT().
			ListCharacters(gomock.Any(), &character.ListCharactersInput{}).
			Return(&character.ListCharactersOutput{Characters: []*agency.Character{c}, CurrentID: "char-1"}, nil)

		out, err := client.ListCharacters(s.ctx)
		s.Require().NoError(err)
		s.Equal("char-1", out.CurrentID)
		s.Len(out.Characters, 1)
	})

	s.Run("errors keep code and metadata", func() {
		s.mockService.EXPECT().
			UpdateCharacter(gomock.Any(), gomock.Any()).
			Return(nil, errors.FailedPrecondition("all 1 reality slots are in use").WithMeta("reality_slots", 1))

		_, err := client.UpdateCharacter(s.ctx, &v1alpha1.UpdateCharacterRequest{
			ID:        "char-1",
			Mutations: []character.Mutation{{Op: character.OpAddReality}},
		})
		s.Require().Error(err)
		s.True(errors.IsFailedPrecondition(err))
		s.Equal("1", errors.GetMeta(err)["reality_slots"])
	})

	s.Run("delete", func() {
		s.mockService.EXPECT().
			DeleteCharacter(gomock.Any(), &character.DeleteCharacterInput{ID: "char-1"}).
			Return(&character.DeleteCharacterOutput{}, nil)

		s.NoError(client.DeleteCharacter(s.ctx, &v1alpha1.CharacterIDRequest{ID: "char-1"}))
	})
}
