package flatten

import (
	"github.com/Masterminds/semver/v3"

	"go.trai.ch/pakt/internal/core/domain"
)

// SelectHighest returns the ref whose version compares greatest under
// semantic versioning. The selection is stable: among versions that compare
// equal, the first in list order wins, so a deterministic input order gives
// a reproducible result. Versions that do not parse as semver sort below
// every parseable one and fall back to plain string comparison among
// themselves.
func SelectHighest(refs []domain.PackageRef) domain.PackageRef {
	best := refs[0]
	bestVer, bestErr := semver.NewVersion(best.Version())

	for _, ref := range refs[1:] {
		ver, err := semver.NewVersion(ref.Version())
		switch {
		case err != nil && bestErr != nil:
			if ref.Version() > best.Version() {
				best, bestVer, bestErr = ref, ver, err
			}
		case err != nil:
			// Unparseable never beats a parseable version.
		case bestErr != nil:
			best, bestVer, bestErr = ref, ver, nil
		default:
			if ver.GreaterThan(bestVer) {
				best, bestVer, bestErr = ref, ver, nil
			}
		}
	}
	return best
}
