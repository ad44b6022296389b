package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/agency-api/internal/errors"
)

// Client calls the character service and decodes responses into this package's types.
// Errors come back as *errors.Error.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client on an existing connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[T any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts ...grpc.CallOption) (*T, error) {
	in, err := ToStruct(req)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, errors.FromGRPCError(err)
	}

	resp := new(T)
	if err := FromStruct(out, resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}
	return resp, nil
}

// CreateCharacter creates a record
func (c *Client) CreateCharacter(ctx context.Context, req *CreateCharacterRequest, opts ...grpc.CallOption) (*CharacterResponse, error) {
	return invoke[CharacterResponse](ctx, c.cc, MethodCreateCharacter, req, opts...)
}

// GetCharacter returns one record
func (c *Client) GetCharacter(ctx context.Context, req *CharacterIDRequest, opts ...grpc.CallOption) (*CharacterResponse, error) {
	return invoke[CharacterResponse](ctx, c.cc, MethodGetCharacter, req, opts...)
}

// GetCurrentCharacter returns the selected record
func (c *Client) GetCurrentCharacter(ctx context.Context, opts ...grpc.CallOption) (*CharacterResponse, error) {
	return invoke[CharacterResponse](ctx, c.cc, MethodGetCurrentCharacter, &Empty{}, opts...)
}

// SetCurrentCharacter selects a record
func (c *Client) SetCurrentCharacter(ctx context.Context, req *CharacterIDRequest, opts ...grpc.CallOption) (*CharacterResponse, error) {
	return invoke[CharacterResponse](ctx, c.cc, MethodSetCurrentCharacter, req, opts...)
}

// ListCharacters returns every readable record
func (c *Client) ListCharacters(ctx context.Context, opts ...grpc.CallOption) (*ListCharactersResponse, error) {
	return invoke[ListCharactersResponse](ctx, c.cc, MethodListCharacters, &Empty{}, opts...)
}

// DeleteCharacter removes a record
func (c *Client) DeleteCharacter(ctx context.Context, req *CharacterIDRequest, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c.cc, MethodDeleteCharacter, req, opts...)
	return err
}

// ClearCharacters removes every record
func (c *Client) ClearCharacters(ctx context.Context, opts ...grpc.CallOption) (*ClearCharactersResponse, error) {
	return invoke[ClearCharactersResponse](ctx, c.cc, MethodClearCharacters, &Empty{}, opts...)
}

// UpdateCharacter applies mutations
func (c *Client) UpdateCharacter(ctx context.Context, req *UpdateCharacterRequest, opts ...grpc.CallOption) (*UpdateCharacterResponse, error) {
	return invoke[UpdateCharacterResponse](ctx, c.cc, MethodUpdateCharacter, req, opts...)
}

// SaveCharacter writes pending changes now
func (c *Client) SaveCharacter(ctx context.Context, req *CharacterIDRequest, opts ...grpc.CallOption) (*CharacterResponse, error) {
	return invoke[CharacterResponse](ctx, c.cc, MethodSaveCharacter, req, opts...)
}

// ImportCharacter stores a character file under a new id
func (c *Client) ImportCharacter(ctx context.Context, req *ImportCharacterRequest, opts ...grpc.CallOption) (*CharacterResponse, error) {
	return invoke[CharacterResponse](ctx, c.cc, MethodImportCharacter, req, opts...)
}

// ExportCharacter renders a record as a file
func (c *Client) ExportCharacter(ctx context.Context, req *ExportCharacterRequest, opts ...grpc.CallOption) (*ExportCharacterResponse, error) {
	return invoke[ExportCharacterResponse](ctx, c.cc, MethodExportCharacter, req, opts...)
}

// EncodeShareLink builds a share link
func (c *Client) EncodeShareLink(ctx context.Context, req *CharacterIDRequest, opts ...grpc.CallOption) (*ShareLinkResponse, error) {
	return invoke[ShareLinkResponse](ctx, c.cc, MethodEncodeShareLink, req, opts...)
}

// DecodeShareLink reads a share link
func (c *Client) DecodeShareLink(ctx context.Context, req *DecodeShareLinkRequest, opts ...grpc.CallOption) (*DecodeShareLinkResponse, error) {
	return invoke[DecodeShareLinkResponse](ctx, c.cc, MethodDecodeShareLink, req, opts...)
}

// ListCatalog returns the static game data
func (c *Client) ListCatalog(ctx context.Context, opts ...grpc.CallOption) (*CatalogResponse, error) {
	return invoke[CatalogResponse](ctx, c.cc, MethodListCatalog, &Empty{}, opts...)
}
