// Package v1alpha1 serves the character orchestrator over gRPC. Messages travel as
// google.protobuf.Struct values holding the JSON form of the request and response types
// in this package.
package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "agency.api.v1alpha1.CharacterService"

// Method names
const (
	MethodCreateCharacter     = "CreateCharacter"
	MethodGetCharacter        = "GetCharacter"
	MethodGetCurrentCharacter = "GetCurrentCharacter"
	MethodSetCurrentCharacter = "SetCurrentCharacter"
	MethodListCharacters      = "ListCharacters"
	MethodDeleteCharacter     = "DeleteCharacter"
	MethodClearCharacters     = "ClearCharacters"
	MethodUpdateCharacter     = "UpdateCharacter"
	MethodSaveCharacter       = "SaveCharacter"
	MethodImportCharacter     = "ImportCharacter"
	MethodExportCharacter     = "ExportCharacter"
	MethodEncodeShareLink     = "EncodeShareLink"
	MethodDecodeShareLink     = "DecodeShareLink"
	MethodListCatalog         = "ListCatalog"
)

// CharacterServiceServer is the server API for the character service
type CharacterServiceServer interface {
	CreateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCurrentCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetCurrentCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCharacters(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearCharacters(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ImportCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EncodeShareLink(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DecodeShareLink(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCatalog(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterCharacterServiceServer registers srv on s
func RegisterCharacterServiceServer(s grpc.ServiceRegistrar, srv CharacterServiceServer) {
	s.RegisterService(&CharacterServiceDesc, srv)
}

type unaryMethod func(CharacterServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := FullMethod(name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CharacterServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CharacterServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// CharacterServiceDesc describes the character service for grpc.Server
var CharacterServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CharacterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(MethodCreateCharacter, CharacterServiceServer.CreateCharacter),
		unaryHandler(MethodGetCharacter, CharacterServiceServer.GetCharacter),
		unaryHandler(MethodGetCurrentCharacter, CharacterServiceServer.GetCurrentCharacter),
		unaryHandler(MethodSetCurrentCharacter, CharacterServiceServer.SetCurrentCharacter),
		unaryHandler(MethodListCharacters, CharacterServiceServer.ListCharacters),
		unaryHandler(MethodDeleteCharacter, CharacterServiceServer.DeleteCharacter),
		unaryHandler(MethodClearCharacters, CharacterServiceServer.ClearCharacters),
		unaryHandler(MethodUpdateCharacter, CharacterServiceServer.UpdateCharacter),
		unaryHandler(MethodSaveCharacter, CharacterServiceServer.SaveCharacter),
		unaryHandler(MethodImportCharacter, CharacterServiceServer.ImportCharacter),
		unaryHandler(MethodExportCharacter, CharacterServiceServer.ExportCharacter),
		unaryHandler(MethodEncodeShareLink, CharacterServiceServer.EncodeShareLink),
		unaryHandler(MethodDecodeShareLink, CharacterServiceServer.DecodeShareLink),
		unaryHandler(MethodListCatalog, CharacterServiceServer.ListCatalog),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "",
}

// FullMethod returns the invoke path for a method name
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}
