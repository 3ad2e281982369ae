package sessions

import "context"

var sessionContextKey = struct{ name string }{"session"}

type Data struct {
	ID string // Browser session id, also the key into the KV buckets
}

func WithSession(ctx context.Context, data *Data) context.Context {
	return context.WithValue(ctx, sessionContextKey, data)
}

// GetSession will return the session data in the Context.
// If the session data isn't found, nil is returned.
func GetSession(ctx context.Context) *Data {
	val := ctx.Value(sessionContextKey)
	if val == nil {
		return nil
	}

	data, ok := val.(*Data)
	if !ok {
		panic("sessions: session context value of wrong type")
	}
	return data
}

var walletContextKey = struct{ name string }{"wallet"}

type WalletData struct {
	Address string
}

func WithWallet(ctx context.Context, data *WalletData) context.Context {
	return context.WithValue(ctx, walletContextKey, data)
}

// GetWallet will return the connected wallet in the Context.
// If no wallet is connected, nil is returned.
func GetWallet(ctx context.Context) *WalletData {
	val := ctx.Value(walletContextKey)
	if val == nil {
		return nil
	}

	data, ok := val.(*WalletData)
	if !ok {
		panic("sessions: wallet context value of wrong type")
	}
	return data
}

// Address is the connected wallet's address or "".
func Address(ctx context.Context) string {
	if w := GetWallet(ctx); w != nil {
		return w.Address
	}
	return ""
}
