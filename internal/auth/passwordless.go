package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/aryankumar/tabmon/internal/util"
)

// DefaultSocketPath is where the TSM controller listens for passwordless logins
const DefaultSocketPath = "/var/run/tableau/tab-controller-login-8850"

const methodPasswordless = "passwordless"

// PasswordlessAuthenticator obtains a session cookie from the TSM controller
// over its local unix socket. Only processes running as a TSM administrator
// on the node can use it.
type PasswordlessAuthenticator struct {
	socketPath string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewPasswordlessAuthenticator creates an authenticator for the given socket.
// timeout bounds the dial and every socket read and write.
func NewPasswordlessAuthenticator(socketPath string, timeout time.Duration, logger *slog.Logger) *PasswordlessAuthenticator {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PasswordlessAuthenticator{
		socketPath: socketPath,
		timeout:    timeout,
		logger:     logger,
	}
}

// Method implements Authenticator
func (a *PasswordlessAuthenticator) Method() string {
	return methodPasswordless
}

// Authorize implements Authenticator. A reply missing the cookie name or
// value yields an empty credential, not an error.
func (a *PasswordlessAuthenticator) Authorize(ctx context.Context) (Credential, error) {
	result, err := a.login(ctx)
	if err != nil {
		return Credential{}, util.NewAuthError(methodPasswordless, err)
	}

	cred := CookieCredential(result.CookieName, result.CookieValue)
	if cred.Empty() {
		a.logger.Warn("passwordless login returned no cookie", "socket", a.socketPath)
	} else {
		a.logger.Debug("tsm login succeeded",
			"method", methodPasswordless,
			"socket", a.socketPath,
			"cookies", cred.Names())
	}

	return cred, nil
}

func (a *PasswordlessAuthenticator) login(ctx context.Context) (*LoginResult, error) {
	dialer := net.Dialer{Timeout: a.timeout}
	conn, err := dialer.DialContext(ctx, "unix", a.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to socket %q: %w", a.socketPath, err)
	}

	conf := &thrift.TConfiguration{
		ConnectTimeout:     a.timeout,
		SocketTimeout:      a.timeout,
		TBinaryStrictRead:  thrift.BoolPtr(true),
		TBinaryStrictWrite: thrift.BoolPtr(true),
	}

	transport := thrift.NewTBufferedTransport(thrift.NewTSocketFromConnConf(conn, conf), 4096)
	defer transport.Close()

	protocol := thrift.NewTBinaryProtocolConf(transport, conf)
	client := NewLoginServiceClient(thrift.NewTStandardClient(protocol, protocol))

	result, err := client.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("login rpc: %w", err)
	}
	return result, nil
}
