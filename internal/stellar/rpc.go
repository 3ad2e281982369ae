package stellar

import (
	"context"
	"net/http"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
)

// RPC is the subset of the Soroban RPC API the donation flow needs.
type RPC interface {
	SimulateTransaction(ctx context.Context, envelope string) (SimulateResult, error)
	SendTransaction(ctx context.Context, envelope string) (SendResult, error)
	GetTransaction(ctx context.Context, hash string) (TransactionStatus, error)
}

type SimulateResult struct {
	TransactionData string                       `json:"transactionData"`
	MinResourceFee  string                       `json:"minResourceFee"`
	Results         []SimulateHostFunctionResult `json:"results"`
	Error           string                       `json:"error,omitempty"`
	LatestLedger    uint32                       `json:"latestLedger"`
}

type SimulateHostFunctionResult struct {
	Auth []string `json:"auth"`
	XDR  string   `json:"xdr"`
}

const (
	SendPending       = "PENDING"
	SendDuplicate     = "DUPLICATE"
	SendTryAgainLater = "TRY_AGAIN_LATER"
	SendError         = "ERROR"
)

type SendResult struct {
	Status         string `json:"status"`
	Hash           string `json:"hash"`
	ErrorResultXDR string `json:"errorResultXdr,omitempty"`
	LatestLedger   uint32 `json:"latestLedger"`
}

const (
	TxSuccess  = "SUCCESS"
	TxNotFound = "NOT_FOUND"
	TxFailed   = "FAILED"
)

type TransactionStatus struct {
	Status        string `json:"status"`
	Ledger        uint32 `json:"ledger,omitempty"`
	EnvelopeXDR   string `json:"envelopeXdr,omitempty"`
	ResultXDR     string `json:"resultXdr,omitempty"`
	ResultMetaXDR string `json:"resultMetaXdr,omitempty"`
	LatestLedger  uint32 `json:"latestLedger"`
}

// RPCClient talks JSON-RPC 2.0 over HTTP to a Soroban RPC server.
type RPCClient struct {
	cli *jrpc2.Client
}

func NewRPCClient(url string, httpClient *http.Client) *RPCClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	ch := jhttp.NewChannel(url, &jhttp.ChannelOptions{Client: httpClient})
	return &RPCClient{cli: jrpc2.NewClient(ch, nil)}
}

func (c *RPCClient) SimulateTransaction(ctx context.Context, envelope string) (SimulateResult, error) {
	var res SimulateResult
	err := c.cli.CallResult(ctx, "simulateTransaction", map[string]string{"transaction": envelope}, &res)
	return res, err
}

func (c *RPCClient) SendTransaction(ctx context.Context, envelope string) (SendResult, error) {
	var res SendResult
	err := c.cli.CallResult(ctx, "sendTransaction", map[string]string{"transaction": envelope}, &res)
	return res, err
}

func (c *RPCClient) GetTransaction(ctx context.Context, hash string) (TransactionStatus, error) {
	var res TransactionStatus
	err := c.cli.CallResult(ctx, "getTransaction", map[string]string{"hash": hash}, &res)
	return res, err
}

func (c *RPCClient) Close() error {
	return c.cli.Close()
}
