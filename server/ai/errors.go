package ai

import "github.com/sqlcanvas/sqlcanvas/pkg/errors"

// AI-specific error codes
var (
	ErrProviderUnknown    = errors.MustNewCode("ai.provider_unknown")
	ErrCredentialMissing  = errors.MustNewCode("ai.credential_missing")
	ErrRequestFailed      = errors.MustNewCode("ai.request_failed")
	ErrResponseStatus     = errors.MustNewCode("ai.response_status")
	ErrResponseEmpty      = errors.MustNewCode("ai.response_empty")
	ErrResponseDecode     = errors.MustNewCode("ai.response_decode_failed")
	ErrMalformedOutput    = errors.MustNewCode("ai.malformed_output")
	ErrProposalNoTables   = errors.MustNewCode("ai.proposal_no_tables")
	ErrProposalIncomplete = errors.MustNewCode("ai.proposal_incomplete")
)
