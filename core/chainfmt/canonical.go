// Package chainfmt provides the canonical encoding, fingerprint and
// human-readable tree of parsed chains.
package chainfmt

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/opal-lang/join/core/expr"
	"github.com/opal-lang/join/core/invariant"
)

// Version of the canonical form. Bump it whenever the encoding changes so
// old fingerprints stop matching.
const Version uint8 = 1

// FingerprintPrefix tags fingerprints with the hash in use.
const FingerprintPrefix = "blake2b-256:"

// Canonical is the intermediate form for deterministic hashing.
// Spans are dropped and leaves are gofmt'd, so reformatting a macro body
// does not change its fingerprint.
type Canonical struct {
	Version uint8
	Mode    string
	Chains  []CanonicalChain
}

// CanonicalChain is one chain in canonical form.
type CanonicalChain struct {
	Actions []CanonicalAction
}

// CanonicalAction is a single action in canonical form.
type CanonicalAction struct {
	Kind     string // "Initial", "Process", "Default"
	Name     string // combinator name, "Initial" for the seed
	Deferred bool
	Expr     string
}

// Canonicalize converts chains to canonical form. mode is part of the
// identity: the same body joined in parallel and in sequence differs.
func Canonicalize(chains []expr.Chain, mode string) (*Canonical, error) {
	c := &Canonical{
		Version: Version,
		Mode:    mode,
		Chains:  make([]CanonicalChain, len(chains)),
	}
	for i, chain := range chains {
		if err := chain.Validate(); err != nil {
			return nil, fmt.Errorf("chain %d: %w", i+1, err)
		}
		actions := make([]CanonicalAction, len(chain.Actions))
		for j, a := range chain.Actions {
			text, err := normalizeLeaf(a.ExtractExpr().Text)
			if err != nil {
				return nil, fmt.Errorf("chain %d action %d: %w", i+1, j+1, err)
			}
			actions[j] = CanonicalAction{
				Kind:     a.Kind.String(),
				Name:     a.Name(),
				Deferred: a.IsDeferred(),
				Expr:     text,
			}
		}
		c.Chains[i] = CanonicalChain{Actions: actions}
	}
	return c, nil
}

// MarshalBinary produces deterministic CBOR encoding of the canonical form.
func (c *Canonical) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	// Alias so the encoder does not call MarshalBinary recursively.
	type canonicalAlias Canonical
	data, err := encMode.Marshal((*canonicalAlias)(c))
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// Fingerprint returns the printable hash of chains expanded in mode.
func Fingerprint(chains []expr.Chain, mode string) (string, error) {
	c, err := Canonicalize(chains, mode)
	if err != nil {
		return "", err
	}
	return Digest(c)
}

// Digest hashes several canonical forms in order, for a file holding more
// than one expansion. CBOR items are self-delimiting, so concatenating their
// encodings is unambiguous.
func Digest(items ...*Canonical) (string, error) {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	for i, c := range items {
		data, err := c.MarshalBinary()
		if err != nil {
			return "", fmt.Errorf("item %d: %w", i, err)
		}
		_, _ = hasher.Write(data)
	}
	return FingerprintPrefix + hex.EncodeToString(hasher.Sum(nil)), nil
}

// normalizeLeaf reprints a leaf the way gofmt would.
func normalizeLeaf(text string) (string, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseExprFrom(fset, "", text, 0)
	if err != nil {
		return "", fmt.Errorf("leaf %q: %w", text, err)
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, node); err != nil {
		return "", fmt.Errorf("leaf %q: %w", text, err)
	}
	invariant.Postcondition(buf.Len() > 0, "normalized leaf %q is empty", text)
	return buf.String(), nil
}
