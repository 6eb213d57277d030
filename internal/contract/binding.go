// Package contract binds the Kinetix KX address and ABI to typed method descriptors
// and executes read-only calls through a chain.Connection.
package contract

import (
	"bytes"
	"context"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/kinetix/kx-console/internal/chain"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Binding is constructed once at process start and shared read-only by all callers.
type Binding struct {
	address     common.Address
	abi         abi.ABI
	descriptors map[string]MethodDescriptor
	conn        chain.Connection
}

// LoadABIFile reads and parses the ABI document at path. A missing or malformed file
// is a startup error.
func LoadABIFile(path string) (abi.ABI, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, errors.Wrapf(err, "failed to read ABI file %s", path)
	}

	parsed, err := ParseABI(raw)
	if err != nil {
		return abi.ABI{}, errors.Wrapf(err, "failed to parse ABI file %s", path)
	}

	return parsed, nil
}

// ParseABI parses a JSON ABI document.
func ParseABI(raw []byte) (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return abi.ABI{}, errors.Wrap(err, "invalid ABI JSON")
	}
	if len(parsed.Methods) == 0 {
		return abi.ABI{}, errors.New("ABI declares no methods")
	}
	return parsed, nil
}

// NewBinding binds address and parsed ABI to conn.
func NewBinding(address common.Address, parsed abi.ABI, conn chain.Connection) (*Binding, error) {
	if conn == nil {
		return nil, errors.New("chain connection is required")
	}
	if address == (common.Address{}) {
		return nil, errors.New("contract address is required")
	}

	descriptors := make(map[string]MethodDescriptor, len(parsed.Methods))
	for name, method := range parsed.Methods {
		descriptors[name] = describeMethod(method)
	}

	log.Debug().
		Str("contract", address.Hex()).
		Int("methods", len(descriptors)).
		Msg("Contract binding initialized")

	return &Binding{
		address:     address,
		abi:         parsed,
		descriptors: descriptors,
		conn:        conn,
	}, nil
}

func describeMethod(method abi.Method) MethodDescriptor {
	inputs := make([]string, 0, len(method.Inputs))
	for _, in := range method.Inputs {
		inputs = append(inputs, in.Type.String())
	}

	outputs := make([]string, 0, len(method.Outputs))
	for _, out := range method.Outputs {
		outputs = append(outputs, out.Type.String())
	}

	mutability := Write
	if method.IsConstant() {
		mutability = Read
	}

	return MethodDescriptor{
		Name:       method.RawName,
		Inputs:     inputs,
		Outputs:    outputs,
		Mutability: mutability,
		Payable:    method.IsPayable(),
	}
}

// Address returns the bound contract address.
func (b *Binding) Address() common.Address {
	return b.address
}

// Describe returns the descriptor for methodName.
func (b *Binding) Describe(methodName string) (MethodDescriptor, error) {
	d, ok := b.descriptors[methodName]
	if !ok {
		return MethodDescriptor{}, chainerr.Newf(chainerr.UnknownMethod, "method %q is not part of the contract ABI", methodName)
	}
	return d.clone(), nil
}

// Methods lists every descriptor ordered by name.
func (b *Binding) Methods() []MethodDescriptor {
	out := make([]MethodDescriptor, 0, len(b.descriptors))
	for _, d := range b.descriptors {
		out = append(out, d.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Encode packs a call to methodName. Arity and type mismatches are ArgumentMismatch.
func (b *Binding) Encode(methodName string, args []interface{}) ([]byte, error) {
	method, ok := b.abi.Methods[methodName]
	if !ok {
		return nil, chainerr.Newf(chainerr.UnknownMethod, "method %q is not part of the contract ABI", methodName)
	}

	if len(args) != len(method.Inputs) {
		return nil, chainerr.Newf(chainerr.ArgumentMismatch,
			"method %s expects %d argument(s), got %d", methodName, len(method.Inputs), len(args))
	}

	data, err := b.abi.Pack(methodName, args...)
	if err != nil {
		return nil, chainerr.Wrap(chainerr.ArgumentMismatch, err, "arguments do not match "+methodName+" input types")
	}

	return data, nil
}

// Read executes a read-only method and returns its decoded outputs in ABI order.
// caller sets msg.sender for methods such as getMyPositions and may be nil.
func (b *Binding) Read(ctx context.Context, methodName string, args []interface{}, caller *common.Address) ([]interface{}, error) {
	d, err := b.Describe(methodName)
	if err != nil {
		return nil, err
	}
	if d.Mutability != Read {
		return nil, chainerr.Newf(chainerr.WrongMutability, "method %s changes state and cannot be read", methodName)
	}

	data, err := b.Encode(methodName, args)
	if err != nil {
		return nil, err
	}

	out, err := b.conn.ReadonlyCall(ctx, caller, b.address, data)
	if err != nil {
		return nil, err
	}

	if len(out) == 0 && len(d.Outputs) > 0 {
		return nil, chainerr.Newf(chainerr.DecodeFailed, "%s returned no data", methodName)
	}

	values, err := b.abi.Unpack(methodName, out)
	if err != nil {
		return nil, chainerr.Wrap(chainerr.DecodeFailed, err, "failed to decode "+methodName+" result")
	}

	return values, nil
}
