package config

import (
	"time"

	"github.com/kat-co/vala"
	"github.com/kinetix/kx-console/internal/util"
	"github.com/rs/zerolog"
)

const (
	SignerModeSign    = "sign"
	SignerModeDisplay = "display"

	KeySourceEnv      = "env"
	KeySourcePrompt   = "prompt"
	KeySourceKeystore = "keystore"
	KeySourceMnemonic = "mnemonic"
	KeySourceNone     = "none"

	DefaultDerivationPath = "m/44'/60'/0'/0/0"
)

type EchoServer struct {
	Debug                         bool
	ListenAddress                 string
	EnableCORSMiddleware          bool
	CORSAllowOrigins              []string
	EnableLoggerMiddleware        bool
	EnableRecoverMiddleware       bool
	EnableRequestIDMiddleware     bool
	EnableTrailingSlashMiddleware bool
	EnableSecureMiddleware        bool
	EnableCacheControlMiddleware  bool
	SecureMiddleware              EchoServerSecureMiddleware
}

// EchoServerSecureMiddleware represents a subset of echo's secure middleware config relevant to the app server.
// https://github.com/labstack/echo/blob/master/middleware/secure.go
type EchoServerSecureMiddleware struct {
	XSSProtection         string
	ContentTypeNosniff    string
	XFrameOptions         string
	HSTSMaxAge            int
	HSTSExcludeSubdomains bool
	ContentSecurityPolicy string
	CSPReportOnly         bool
	HSTSPreloadEnabled    bool
	ReferrerPolicy        string
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestHeader   bool
	LogRequestQuery    bool
	LogResponseHeader  bool
	PrettyPrintConsole bool
}

type ManagementServer struct {
	Secret           string `json:"-"` // sensitive
	ReadinessTimeout time.Duration
	LivenessTimeout  time.Duration
}

type Metrics struct {
	Enabled bool
	// Subsystem prefixes the kx_rpc_* collectors.
	Namespace string
}

type Chain struct {
	RPCURL         string
	RequestTimeout time.Duration
	// ChainID pins the chain id instead of querying eth_chainId. Zero means query once.
	ChainID int64
}

type Contract struct {
	Address        string
	ABIPath        string
	OracleDecimals int32
}

type Gas struct {
	DefaultLimit    uint64
	HeadroomPercent uint64
	// PriceGwei pins the gas price. Empty means the node's live price plus headroom.
	PriceGwei     string
	EstimateLimit bool
}

type Signer struct {
	Mode      string
	KeySource string
	// SenderAddress is required when no key is loaded (display mode).
	SenderAddress      string
	PrivateKey         string `json:"-"` // sensitive
	KeystorePath       string
	KeystorePassword   string `json:"-"` // sensitive
	Mnemonic           string `json:"-"` // sensitive
	MnemonicPassphrase string `json:"-"` // sensitive
	DerivationPath     string
}

type Server struct {
	Echo       EchoServer
	Logger     LoggerServer
	Management ManagementServer
	Metrics    Metrics
	Chain      Chain
	Contract   Contract
	Gas        Gas
	Signer     Signer
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
// We don't expect that ENV_VARs change while we are running our application or our tests
// (and it would be a bad thing to do anyways with parallel testing).
// Do NOT use os.Setenv / os.Unsetenv in tests utilizing DefaultServiceConfigFromEnv()!
func DefaultServiceConfigFromEnv() Server {
	// An `.env.local` file in your project root can override the currently set ENV variables.
	//
	// We never automatically apply `.env.local` when running "go test" as these ENV variables
	// may be sensitive (e.g. secrets to external APIs) and applying them modifies the process
	// global "os.Env" state (it should be applied via t.Setenv instead).
	//
	// If you need dotenv ENV variables available in a test, do that explicitly within that
	// test before executing DefaultServiceConfigFromEnv (or test.WithTestServer).
	if !util.RunningInTest() {
		DotEnvTryLoad(util.GetEnv("KX_DOTENV_PATH", ".env.local"))
	}

	return Server{
		Echo: EchoServer{
			Debug:                         util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                 util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
			EnableCORSMiddleware:          util.GetEnvAsBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true),
			CORSAllowOrigins:              util.GetEnvAsStringArr("SERVER_ECHO_CORS_ALLOW_ORIGINS", []string{"*"}),
			EnableLoggerMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true),
			EnableRecoverMiddleware:       util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:     util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableTrailingSlashMiddleware: util.GetEnvAsBool("SERVER_ECHO_ENABLE_TRAILING_SLASH_MIDDLEWARE", true),
			EnableSecureMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_SECURE_MIDDLEWARE", true),
			EnableCacheControlMiddleware:  util.GetEnvAsBool("SERVER_ECHO_ENABLE_CACHE_CONTROL_MIDDLEWARE", true),
			// see https://echo.labstack.com/middleware/secure
			SecureMiddleware: EchoServerSecureMiddleware{
				XSSProtection:         util.GetEnv("SERVER_ECHO_SECURE_MIDDLEWARE_XSS_PROTECTION", "1; mode=block"),
				ContentTypeNosniff:    util.GetEnv("SERVER_ECHO_SECURE_MIDDLEWARE_CONTENT_TYPE_NOSNIFF", "nosniff"),
				XFrameOptions:         util.GetEnv("SERVER_ECHO_SECURE_MIDDLEWARE_X_FRAME_OPTIONS", "SAMEORIGIN"),
				HSTSMaxAge:            util.GetEnvAsInt("SERVER_ECHO_SECURE_MIDDLEWARE_HSTS_MAX_AGE", 0),
				HSTSExcludeSubdomains: util.GetEnvAsBool("SERVER_ECHO_SECURE_MIDDLEWARE_HSTS_EXCLUDE_SUBDOMAINS", false),
				ContentSecurityPolicy: util.GetEnv("SERVER_ECHO_SECURE_MIDDLEWARE_CONTENT_SECURITY_POLICY", ""),
				CSPReportOnly:         util.GetEnvAsBool("SERVER_ECHO_SECURE_MIDDLEWARE_CSP_REPORT_ONLY", false),
				HSTSPreloadEnabled:    util.GetEnvAsBool("SERVER_ECHO_SECURE_MIDDLEWARE_HSTS_PRELOAD_ENABLED", false),
				ReferrerPolicy:        util.GetEnv("SERVER_ECHO_SECURE_MIDDLEWARE_REFERRER_POLICY", ""),
			},
		},
		Logger: LoggerServer{
			Level:              util.LogLevelFromString(util.GetEnv("KX_LOGGER_LEVEL", zerolog.InfoLevel.String())),
			RequestLevel:       util.LogLevelFromString(util.GetEnv("KX_LOGGER_REQUEST_LEVEL", zerolog.DebugLevel.String())),
			LogRequestHeader:   util.GetEnvAsBool("KX_LOGGER_LOG_REQUEST_HEADER", false),
			LogRequestQuery:    util.GetEnvAsBool("KX_LOGGER_LOG_REQUEST_QUERY", false),
			LogResponseHeader:  util.GetEnvAsBool("KX_LOGGER_LOG_RESPONSE_HEADER", false),
			PrettyPrintConsole: util.GetEnvAsBool("KX_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Management: ManagementServer{
			Secret:           util.GetMgmtSecret("SERVER_MANAGEMENT_SECRET"),
			ReadinessTimeout: time.Second * time.Duration(util.GetEnvAsInt("SERVER_MANAGEMENT_READINESS_TIMEOUT_SEC", 4)),
			LivenessTimeout:  time.Second * time.Duration(util.GetEnvAsInt("SERVER_MANAGEMENT_LIVENESS_TIMEOUT_SEC", 9)),
		},
		Metrics: Metrics{
			Enabled:   util.GetEnvAsBool("KX_METRICS_ENABLED", true),
			Namespace: util.GetEnv("KX_METRICS_NAMESPACE", "kx"),
		},
		Chain: Chain{
			RPCURL:         util.GetEnv("KX_RPC_URL", ""),
			RequestTimeout: time.Second * time.Duration(util.GetEnvAsInt("KX_RPC_TIMEOUT_SEC", 15)),
			ChainID:        int64(util.GetEnvAsInt("KX_CHAIN_ID", 0)),
		},
		Contract: Contract{
			Address:        util.GetEnv("KX_CONTRACT_ADDRESS", ""),
			ABIPath:        util.GetEnv("KX_ABI_PATH", "contracts/KinetixKX.abi.json"),
			OracleDecimals: int32(util.GetEnvAsInt("KX_ORACLE_DECIMALS", 8)), //nolint:gosec
		},
		Gas: Gas{
			DefaultLimit:    util.GetEnvAsUint64("KX_GAS_LIMIT", 300000),
			HeadroomPercent: util.GetEnvAsUint64("KX_GAS_HEADROOM_PERCENT", 110),
			PriceGwei:       util.GetEnv("KX_GAS_PRICE_GWEI", ""),
			EstimateLimit:   util.GetEnvAsBool("KX_GAS_ESTIMATE_LIMIT", false),
		},
		Signer: Signer{
			Mode:               util.GetEnv("KX_SIGNER_MODE", SignerModeSign),
			KeySource:          util.GetEnv("KX_KEY_SOURCE", KeySourceEnv),
			SenderAddress:      util.GetEnv("KX_SENDER_ADDRESS", ""),
			PrivateKey:         util.GetEnv("KX_PRIVATE_KEY", ""),
			KeystorePath:       util.GetEnv("KX_KEYSTORE_PATH", ""),
			KeystorePassword:   util.GetEnv("KX_KEYSTORE_PASSWORD", ""),
			Mnemonic:           util.GetEnv("KX_MNEMONIC", ""),
			MnemonicPassphrase: util.GetEnv("KX_MNEMONIC_PASSPHRASE", ""),
			DerivationPath:     util.GetEnv("KX_DERIVATION_PATH", DefaultDerivationPath),
		},
	}
}

// Validate checks the settings that every command relies on. Failures are startup errors.
func (c Server) Validate() error {
	return vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.Chain.RPCURL, "KX_RPC_URL"),
		vala.StringNotEmpty(c.Contract.Address, "KX_CONTRACT_ADDRESS"),
		vala.StringNotEmpty(c.Contract.ABIPath, "KX_ABI_PATH"),
		vala.GreaterThan(int(c.Contract.OracleDecimals), -1, "KX_ORACLE_DECIMALS"),
		vala.GreaterThan(int(c.Gas.HeadroomPercent), 99, "KX_GAS_HEADROOM_PERCENT"), //nolint:gosec
		vala.Not(vala.Equals(c.Gas.DefaultLimit, uint64(0), "KX_GAS_LIMIT")),
		oneOf(c.Signer.Mode, "KX_SIGNER_MODE", SignerModeSign, SignerModeDisplay),
		oneOf(c.Signer.KeySource, "KX_KEY_SOURCE", KeySourceEnv, KeySourcePrompt, KeySourceKeystore, KeySourceMnemonic, KeySourceNone),
	).Check()
}

func oneOf(value string, name string, allowed ...string) vala.Checker {
	return func() (bool, string) {
		for _, a := range allowed {
			if value == a {
				return true, ""
			}
		}
		return false, "Parameter " + name + " must be one of " + joinQuoted(allowed) + "."
	}
}

func joinQuoted(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += "'" + v + "'"
	}
	return out
}
