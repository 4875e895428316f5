package domain

import (
	"encoding/json"
	"time"

	"go.trai.ch/zerr"
)

// PackageStatus is the terminal or in-flight state of one package build.
type PackageStatus string

const (
	// StatusPending means the package is waiting on its dependencies.
	StatusPending PackageStatus = "Pending"
	// StatusAssembling means the dependency subtree is being materialized.
	StatusAssembling PackageStatus = "Assembling"
	// StatusInstalling means lifecycle scripts are executing.
	StatusInstalling PackageStatus = "Installing"
	// StatusDone means the package built successfully.
	StatusDone PackageStatus = "Done"
	// StatusFailed means a lifecycle script exited non-zero.
	StatusFailed PackageStatus = "Failed"
	// StatusBlocked means a direct or transitive dependency failed, so the
	// package was never attempted. It is not itself an execution failure.
	StatusBlocked PackageStatus = "Blocked"
)

// Terminal reports whether the status is one a package can end a build in.
func (s PackageStatus) Terminal() bool {
	return s == StatusDone || s == StatusFailed || s == StatusBlocked
}

// InvalidationKey is the cache key of one build: the lowercase hex form of a
// 256-bit digest over the filtered source tree and build metadata.
type InvalidationKey string

// BuildReport is the user-visible outcome of a build run: exactly one
// terminal status per package plus the overall result.
type BuildReport struct {
	Project   string                   `json:"project"`
	Key       InvalidationKey          `json:"key"`
	Packages  map[string]PackageStatus `json:"packages"`
	Success   bool                     `json:"success"`
	Cached    bool                     `json:"cached,omitzero"`
	Timestamp time.Time                `json:"timestamp"`
}

// Marshal serializes the report for persistence in the artifact store.
func (r *BuildReport) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal build report")
	}
	return data, nil
}

// UnmarshalBuildReport restores a persisted report.
func UnmarshalBuildReport(data []byte) (*BuildReport, error) {
	var r BuildReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal build report")
	}
	return &r, nil
}
