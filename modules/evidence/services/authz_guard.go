package services

import (
	"context"

	"github.com/iota-uz/dora-register/pkg/authz"
)

const EvidenceAuthzObject = "evidence.documents"

var authorizeEvidenceFn = defaultAuthorizeEvidence

func authorizeEvidence(ctx context.Context, action string) error {
	return authorizeEvidenceFn(ctx, action)
}

func defaultAuthorizeEvidence(ctx context.Context, action string) error {
	return authz.AuthorizeContext(ctx, authz.Use(), EvidenceAuthzObject, action)
}
