//go:build wireinject

package api

import (
	"github.com/google/wire"
	"github.com/kinetix/kx-console/internal/chain"
	"github.com/kinetix/kx-console/internal/config"
	"github.com/kinetix/kx-console/internal/metrics"
	"github.com/kinetix/kx-console/internal/txbuilder"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	metrics.New,
	NewContractBinding,
	NewTransactionBuilder,
	NewSigningKey,
	NewSubmitter,
	txbuilder.NewSenderLocks,
	NewKinetixService,
)

var rpcClientSet = wire.NewSet(
	NewRPCClient,
	wire.Bind(new(chain.Connection), new(*chain.RPCClient)),
)

// InitNewServer returns a new Server instance connected to the configured node.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, rpcClientSet)
	return new(Server), nil
}

// InitNewServerWithConnection returns a new Server instance using the given node connection.
// All the other components are initialized via go wire according to the configuration.
func InitNewServerWithConnection(
	_ config.Server,
	_ chain.Connection,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
