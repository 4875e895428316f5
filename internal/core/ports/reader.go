package ports

import "go.trai.ch/pakt/internal/core/domain"

// TreeReader builds a frozen, depth-bounded snapshot of a directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=reader.go -destination=mocks/mock_reader.go -package=mocks
type TreeReader interface {
	// Read mirrors the directory at root into an in-memory tree. Directories
	// beyond maxDepth are recorded without their children.
	Read(root string, maxDepth int) (*domain.TreeNode, error)
}
