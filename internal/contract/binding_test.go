package contract

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kinetix/kx-console/contracts"
	"github.com/kinetix/kx-console/internal/chain"
	"github.com/kinetix/kx-console/internal/chainerr"
	"github.com/kinetix/kx-console/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testContract = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	testCaller   = common.HexToAddress("0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359")
)

// stubConnection answers eth_call with a canned payload and records what it was asked.
type stubConnection struct {
	chain.Connection

	out      []byte
	err      error
	calls    int
	lastFrom *common.Address
	lastTo   common.Address
	lastData []byte
}

func (s *stubConnection) ReadonlyCall(_ context.Context, from *common.Address, to common.Address, data []byte) ([]byte, error) {
	s.calls++
	s.lastFrom = from
	s.lastTo = to
	s.lastData = data
	return s.out, s.err
}

func newTestBinding(t *testing.T, conn chain.Connection) *Binding {
	t.Helper()
	parsed, err := ParseABI(contracts.KinetixABI)
	require.NoError(t, err)
	b, err := NewBinding(testContract, parsed, conn)
	require.NoError(t, err)
	return b
}

func packOutputs(t *testing.T, b *Binding, method string, values ...interface{}) []byte {
	t.Helper()
	out, err := b.abi.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)
	return out
}

func TestDescribe(t *testing.T) {
	b := newTestBinding(t, &stubConnection{})

	buy, err := b.Describe("buy")
	require.NoError(t, err)
	assert.Equal(t, Write, buy.Mutability)
	assert.True(t, buy.Payable)
	assert.Empty(t, buy.Inputs)

	withdraw, err := b.Describe("withdraw")
	require.NoError(t, err)
	assert.Equal(t, Write, withdraw.Mutability)
	assert.False(t, withdraw.Payable)
	assert.Equal(t, []string{"uint256"}, withdraw.Inputs)

	positions, err := b.Describe("getMyPositions")
	require.NoError(t, err)
	assert.Equal(t, Read, positions.Mutability)
	assert.Equal(t, []string{"(uint256,uint256,bool)[]"}, positions.Outputs)

	check, err := b.Describe("checkUpkeep")
	require.NoError(t, err)
	assert.Equal(t, Read, check.Mutability)
	assert.Equal(t, []string{"bool", "bytes"}, check.Outputs)

	_, err = b.Describe("selfDestruct")
	assert.Equal(t, chainerr.UnknownMethod, chainerr.KindOf(err))
}

func TestDescribeReturnsCopies(t *testing.T) {
	b := newTestBinding(t, &stubConnection{})

	d, err := b.Describe("withdraw")
	require.NoError(t, err)
	d.Inputs[0] = "address"
	d.Payable = true

	again, err := b.Describe("withdraw")
	require.NoError(t, err)
	assert.Equal(t, []string{"uint256"}, again.Inputs)
	assert.False(t, again.Payable)
}

func TestMethodsAreSorted(t *testing.T) {
	b := newTestBinding(t, &stubConnection{})

	methods := b.Methods()
	require.Len(t, methods, 10)
	assert.Equal(t, "balanceOf", methods[0].Name)
	assert.Equal(t, "withdraw", methods[len(methods)-1].Name)
}

func TestReadEthPriceScalesToUSD(t *testing.T) {
	conn := &stubConnection{}
	b := newTestBinding(t, conn)
	conn.out = packOutputs(t, b, "getEthPrice", big.NewInt(250000000000))

	values, err := b.Read(context.Background(), "getEthPrice", nil, nil)
	require.NoError(t, err)

	raw, err := DecodeUint(values)
	require.NoError(t, err)
	assert.Equal(t, "2500.00", units.ScaleOraclePrice(raw, units.DefaultOracleDecimals).StringFixed(2))

	assert.Equal(t, testContract, conn.lastTo)
	assert.Nil(t, conn.lastFrom)
	assert.Equal(t, b.abi.Methods["getEthPrice"].ID, conn.lastData)
}

func TestReadMyPositionsPreservesOrderAndTypes(t *testing.T) {
	conn := &stubConnection{}
	b := newTestBinding(t, conn)
	conn.out = packOutputs(t, b, "getMyPositions", []positionTuple{
		{EntryPrice: big.NewInt(2500_00000000), Amount: big.NewInt(1_000_000_000_000_000_000), Sold: false},
		{EntryPrice: big.NewInt(2650_00000000), Amount: big.NewInt(500_000_000_000_000_000), Sold: true},
		{EntryPrice: big.NewInt(2400_00000000), Amount: big.NewInt(10_000_000_000_000_000), Sold: false},
	})

	caller := testCaller
	values, err := b.Read(context.Background(), "getMyPositions", nil, &caller)
	require.NoError(t, err)
	require.NotNil(t, conn.lastFrom)
	assert.Equal(t, testCaller, *conn.lastFrom)

	positions, err := DecodePositions(values)
	require.NoError(t, err)
	require.Len(t, positions, 3)

	assert.Equal(t, 0, positions[0].ID)
	assert.Equal(t, int64(2500_00000000), positions[0].EntryPrice.Int64())
	assert.Equal(t, "1", units.FromWei(positions[0].AmountWei))
	assert.False(t, positions[0].Sold)

	assert.Equal(t, 1, positions[1].ID)
	assert.Equal(t, int64(2650_00000000), positions[1].EntryPrice.Int64())
	assert.Equal(t, "0.5", units.FromWei(positions[1].AmountWei))
	assert.True(t, positions[1].Sold)

	assert.Equal(t, 2, positions[2].ID)
	assert.Equal(t, int64(2400_00000000), positions[2].EntryPrice.Int64())
	assert.Equal(t, "0.01", units.FromWei(positions[2].AmountWei))
	assert.False(t, positions[2].Sold)
}

func TestReadCheckUpkeep(t *testing.T) {
	conn := &stubConnection{}
	b := newTestBinding(t, conn)
	conn.out = packOutputs(t, b, "checkUpkeep", true, []byte{0xde, 0xad})

	values, err := b.Read(context.Background(), "checkUpkeep", []interface{}{[]byte{}}, nil)
	require.NoError(t, err)

	check, err := DecodeUpkeep(values)
	require.NoError(t, err)
	assert.True(t, check.UpkeepNeeded)
	assert.Equal(t, []byte{0xde, 0xad}, check.PerformData)
}

func TestReadRejectsWriteMethods(t *testing.T) {
	conn := &stubConnection{}
	b := newTestBinding(t, conn)

	_, err := b.Read(context.Background(), "manualSell", nil, nil)
	assert.Equal(t, chainerr.WrongMutability, chainerr.KindOf(err))
	assert.Zero(t, conn.calls)
}

func TestReadArgumentMismatch(t *testing.T) {
	conn := &stubConnection{}
	b := newTestBinding(t, conn)

	_, err := b.Read(context.Background(), "getSellTargetPrice", nil, nil)
	assert.Equal(t, chainerr.ArgumentMismatch, chainerr.KindOf(err))

	_, err = b.Read(context.Background(), "getSellTargetPrice", []interface{}{"not-an-address"}, nil)
	assert.Equal(t, chainerr.ArgumentMismatch, chainerr.KindOf(err))

	_, err = b.Read(context.Background(), "getEthPrice", []interface{}{big.NewInt(1)}, nil)
	assert.Equal(t, chainerr.ArgumentMismatch, chainerr.KindOf(err))

	assert.Zero(t, conn.calls)
}

func TestReadPropagatesRevert(t *testing.T) {
	conn := &stubConnection{err: chainerr.Reverted(nil, "oracle stale")}
	b := newTestBinding(t, conn)

	_, err := b.Read(context.Background(), "getSellTargetPrice", []interface{}{testCaller}, nil)
	ce, ok := chainerr.As(err)
	require.True(t, ok)
	assert.Equal(t, chainerr.CallReverted, ce.Kind)
	assert.Equal(t, "oracle stale", ce.Reason)
}

func TestReadEmptyResultIsDecodeFailure(t *testing.T) {
	b := newTestBinding(t, &stubConnection{out: []byte{}})

	_, err := b.Read(context.Background(), "getEthPrice", nil, nil)
	assert.Equal(t, chainerr.DecodeFailed, chainerr.KindOf(err))
}

func TestDecodeHelpersRejectUnexpectedShapes(t *testing.T) {
	_, err := DecodeUint([]interface{}{true})
	assert.Equal(t, chainerr.DecodeFailed, chainerr.KindOf(err))

	_, err = DecodeUint(nil)
	assert.Equal(t, chainerr.DecodeFailed, chainerr.KindOf(err))

	_, err = DecodePositions([]interface{}{big.NewInt(1)})
	assert.Equal(t, chainerr.DecodeFailed, chainerr.KindOf(err))

	_, err = DecodeUpkeep([]interface{}{true})
	assert.Equal(t, chainerr.DecodeFailed, chainerr.KindOf(err))
}

func TestEncodeWithdraw(t *testing.T) {
	b := newTestBinding(t, &stubConnection{})

	data, err := b.Encode("withdraw", []interface{}{big.NewInt(2)})
	require.NoError(t, err)
	require.Len(t, data, 4+32)
	assert.Equal(t, b.abi.Methods["withdraw"].ID, data[:4])
	assert.Equal(t, int64(2), new(big.Int).SetBytes(data[4:]).Int64())

	_, err = b.Encode("withdraw", []interface{}{"two"})
	assert.Equal(t, chainerr.ArgumentMismatch, chainerr.KindOf(err))

	_, err = b.Encode("nope", nil)
	assert.Equal(t, chainerr.UnknownMethod, chainerr.KindOf(err))
}

func TestLoadABIFile(t *testing.T) {
	parsed, err := LoadABIFile("../../" + contracts.DefaultABIPath)
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, "performUpkeep")

	_, err = LoadABIFile("testdata/missing.abi.json")
	require.Error(t, err)

	_, err = ParseABI([]byte(`{"not":"an abi"}`))
	require.Error(t, err)

	_, err = ParseABI([]byte(`[]`))
	require.Error(t, err)
}

func TestNewBindingValidatesArguments(t *testing.T) {
	parsed, err := ParseABI(contracts.KinetixABI)
	require.NoError(t, err)

	_, err = NewBinding(testContract, parsed, nil)
	require.Error(t, err)

	_, err = NewBinding(common.Address{}, parsed, &stubConnection{})
	require.Error(t, err)
}
