package lockfile

import (
	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
)

// Set holds one translator per variant of the closed tag set. Selection is
// a switch over the tag, never a name-keyed table of arbitrary callables.
type Set struct {
	packageLock *PackageLock
	yarnLock    *YarnLock
	manifest    *Manifest
}

// NewSet creates the full translator set.
func NewSet(synth ports.LockfileSynthesizer) *Set {
	return &Set{
		packageLock: NewPackageLock(),
		yarnLock:    NewYarnLock(),
		manifest:    NewManifest(synth),
	}
}

// For returns the translator for a validated translator id.
func (s *Set) For(id domain.TranslatorID) (ports.Translator, error) {
	switch id {
	case domain.TranslatorPackageLock:
		return s.packageLock, nil
	case domain.TranslatorYarnLock:
		return s.yarnLock, nil
	case domain.TranslatorManifest:
		return s.manifest, nil
	}
	return nil, domain.ErrUnknownTranslator
}
