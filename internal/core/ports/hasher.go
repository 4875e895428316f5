package ports

import "go.trai.ch/pakt/internal/core/domain"

// KeyCalculator derives the invalidation key of one build.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type KeyCalculator interface {
	// CalcKey digests the filtered source tree, the canonical project
	// serialization, the translator identity and its sorted arguments.
	// Paths matching an exclude pattern never influence the key.
	CalcKey(project *domain.Project, tree *domain.TreeNode, translator domain.TranslatorID, args map[string]string, excludes []string) (domain.InvalidationKey, error)
}
