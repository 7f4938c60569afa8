package qcli

import "strings"

// ArgBuilder accumulates one QEMU "-device"/"-object"/... option string,
// comma-joining key=value pairs the way the teacher's device serializers
// already do with ad hoc strings.Join calls, but as a sticky-error buffer:
// once Fail has recorded an error, every subsequent call is a no-op and String
// returns "", so a caller can chain calls without checking each one and
// only has to check Err at the end.
type ArgBuilder struct {
	parts []string
	err   error
}

// NewArgBuilder returns an empty builder seeded with the option's driver
// name as its first literal part.
func NewArgBuilder(driver string) *ArgBuilder {
	b := &ArgBuilder{}
	if driver != "" {
		b.parts = append(b.parts, driver)
	}
	return b
}

// AddLiteral appends "key=value" verbatim, with no escaping. Use for values
// already known to be comma-free (enums, integers, booleans).
func (b *ArgBuilder) AddLiteral(key, value string) *ArgBuilder {
	if b.err != nil || value == "" {
		return b
	}
	b.parts = append(b.parts, key+"="+value)
	return b
}

// AddEscaped appends "key=value" with every comma in value doubled, the
// escape QEMU's own option parser requires for commas embedded in a value
// (paths, labels) so they are not mistaken for the next key=value separator.
func (b *ArgBuilder) AddEscaped(key, value string) *ArgBuilder {
	if b.err != nil || value == "" {
		return b
	}
	b.parts = append(b.parts, key+"="+strings.ReplaceAll(value, ",", ",,"))
	return b
}

// AddKeyword appends a bare keyword with no "=value" part, for option flags
// like "id=x,share" that toggle rather than carry a value.
func (b *ArgBuilder) AddKeyword(keyword string) *ArgBuilder {
	if b.err != nil || keyword == "" {
		return b
	}
	b.parts = append(b.parts, keyword)
	return b
}

// Fail marks the builder permanently failed; every subsequent Add call is a
// no-op and String returns "". Use when a value fails validation mid-chain.
func (b *ArgBuilder) Fail(err error) *ArgBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Err returns the sticky error, if any.
func (b *ArgBuilder) Err() error {
	return b.err
}

// String returns the comma-joined option string, or "" if the builder ever
// failed.
func (b *ArgBuilder) String() string {
	if b.err != nil {
		return ""
	}
	return strings.Join(b.parts, ",")
}

// Flush returns the finished option string and an error, converting a sticky
// failure into an InternalInconsistency CompilerError so callers that built
// up state across many Add calls get one clear error at the usual call site
// instead of a silently empty string.
func (b *ArgBuilder) Flush() (string, error) {
	if b.err != nil {
		return "", newErr(InternalInconsistency, "", "argument builder failed: %v", b.err)
	}
	return strings.Join(b.parts, ","), nil
}
