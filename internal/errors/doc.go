// Package errors provides the structured error type used across the agency service.
//
// Errors carry a Code, a user-facing message, an optional cause and metadata. The
// code decides how the error leaves the process: ToGRPCError maps it to a gRPC status
// (metadata travels as an errdetails.ErrorInfo) and Code.HTTPStatus maps it for the
// HTTP routes.
//
// # Usage
//
//	err := errors.NotFound("no data found").WithMeta("character_id", id)
//
//	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
//	    return errors.Wrapf(err, "failed to save character %s", id)
//	}
//
//	if errors.IsNotFound(err) {
//	    // create a fresh record
//	}
//
// # Layers
//
// Repositories return NotFound for missing or unreadable records and wrap storage
// failures as Internal. The orchestrator validates inputs (InvalidArgument) and
// enforces slot caps (FailedPrecondition). Handlers only translate.
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	if input.CharacterID == "" {
//	    vb.RequiredField("character_id")
//	}
//	if err := vb.Build(); err != nil {
//	    return nil, err
//	}
package errors
