package shim

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/leachain/vm-shim/entropy"
	"github.com/leachain/vm-shim/errors"
	"github.com/leachain/vm-shim/output"
)

// AbortHandler receives the formatted abort message. A non-nil return traps
// the guest with that error; nil lets the guest continue.
type AbortHandler func(message string) error

// HostFunc is an entry of the import table.
type HostFunc struct {
	Fn      api.GoModuleFunction
	Params  []api.ValueType
	Results []api.ValueType
}

// Config configures a Shim.
type Config struct {
	// OnAbort handles guest aborts and integrity violations. Defaults to
	// printing the message in red and returning errors.Abort.
	OnAbort AbortHandler

	// RandomBytes is required.
	RandomBytes entropy.Source

	// CustomEnv adds entries to the env namespace. An entry with a builtin
	// name replaces the builtin.
	CustomEnv map[string]HostFunc

	// Sink receives guest-facing output. Defaults to output.Discard.
	Sink output.Sink

	// Strict makes log and random-bytes calls trap when no memory is bound
	// instead of being dropped.
	Strict bool
}

func (c *Config) validate() error {
	if c.RandomBytes == nil {
		return errors.MissingRandomSource()
	}
	for name, hf := range c.CustomEnv {
		if name == "" {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path("CustomEnv").
				Detail("function name cannot be empty").
				Build()
		}
		if hf.Fn == nil {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path("CustomEnv", name).
				Detail("handler cannot be nil").
				Build()
		}
	}
	return nil
}
