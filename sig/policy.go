package sig

import "github.com/kslabs/pkgreader/internal/options"

// Policy is the disable-flag bitfield honored by both package-level
// algorithm selection (against the signature header) and header-only tag
// selection (against a metadata header's trailing index): "ignore this
// tag during selection" per algorithm, with a fixed priority among the
// enabled ones. It is a pure value: selection is a function of (header
// entries, Policy) only.
type Policy struct {
	NoDSA  bool
	NoRSA  bool
	NoSHA1 bool
}

// Option configures a Policy.
type Option = options.Option[*Policy]

// WithDisableDSA disables DSA digest/signature tags during selection.
func WithDisableDSA() Option { return options.NoError[*Policy](func(p *Policy) { p.NoDSA = true }) }

// WithDisableRSA disables RSA digest/signature tags during selection.
func WithDisableRSA() Option { return options.NoError[*Policy](func(p *Policy) { p.NoRSA = true }) }

// WithDisableSHA1 disables the plain SHA1 digest tag during selection.
func WithDisableSHA1() Option { return options.NoError[*Policy](func(p *Policy) { p.NoSHA1 = true }) }

// WithDisableAll disables every algorithm, leaving selection with nothing
// to pick: reads then succeed on structural validity alone.
func WithDisableAll() Option {
	return options.NoError[*Policy](func(p *Policy) {
		p.NoDSA, p.NoRSA, p.NoSHA1 = true, true, true
	})
}

// NewPolicy builds a Policy with every algorithm enabled by default, then
// applies opts.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{}
	_ = options.Apply(p, opts...)

	return p
}
