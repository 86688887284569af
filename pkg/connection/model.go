package connection

import "fmt"

// RPCError is the error member of an RPC response. Code follows HTTP status
// semantics: 401 and 403 mean the credentials were rejected, 404 that the
// addressed record does not exist.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

func (r *RPCError) Error() string {
	if r.Message == "" {
		return fmt.Sprintf("rpc error %d", r.Code)
	}
	return r.Message
}

func (r *RPCError) Is(target error) bool {
	if target == nil {
		return r == nil
	}

	_, ok := target.(*RPCError)
	return ok
}

// RPCRequest is the envelope of a call.
type RPCRequest struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

// RPCResponse is the envelope of a reply. Exactly one of Error and Result
// is set, except for calls that return nothing.
type RPCResponse[T any] struct {
	ID     any       `json:"id"`
	Error  *RPCError `json:"error,omitempty"`
	Result *T        `json:"result,omitempty"`
}

// RawResult holds an encoded result until the caller decodes it into its
// own type with the connection's codec.
type RawResult []byte

func (r *RawResult) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

func (r *RawResult) UnmarshalCBOR(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}
