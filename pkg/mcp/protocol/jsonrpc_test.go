// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_JSONRoundTrip(t *testing.T) {
	// Clients send string or numeric ids; both must survive a round trip
	// unchanged so responses correlate.
	tests := []struct {
		name string
		wire string
	}{
		{"string id", `"req-abc"`},
		{"numeric id", `7`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id RequestID
			require.NoError(t, json.Unmarshal([]byte(tt.wire), &id))
			out, err := json.Marshal(&id)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wire, string(out))
		})
	}
}

func TestRequestID_UnmarshalRejectsOtherTypes(t *testing.T) {
	var id RequestID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &id))
	assert.Error(t, json.Unmarshal([]byte(`{bad`), &id))
}

func TestRequestID_Constructors(t *testing.T) {
	s := NewStringRequestID("tools-call-1")
	require.NotNil(t, s.Str)
	assert.Equal(t, "tools-call-1", *s.Str)
	assert.Nil(t, s.Num)
	assert.Equal(t, "tools-call-1", s.String())

	n := NewNumericRequestID(42)
	require.NotNil(t, n.Num)
	assert.Equal(t, int64(42), *n.Num)
	assert.Nil(t, n.Str)
	assert.Equal(t, "42", n.String())

	assert.Equal(t, "null", (&RequestID{}).String())
}

func TestRequest_IsNotification(t *testing.T) {
	withID := &Request{JSONRPC: JSONRPCVersion, ID: NewNumericRequestID(1), Method: "ping"}
	assert.False(t, withID.IsNotification())

	withoutID := &Request{JSONRPC: JSONRPCVersion, Method: "notifications/initialized"}
	assert.True(t, withoutID.IsNotification())
}

func TestRequest_MarshalJSON(t *testing.T) {
	req := &Request{
		JSONRPC: JSONRPCVersion,
		ID:      NewNumericRequestID(3),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"execute_sql","arguments":{"query":"SELECT 1"}}`),
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"jsonrpc": "2.0",
		"id": 3,
		"method": "tools/call",
		"params": {"name":"execute_sql","arguments":{"query":"SELECT 1"}}
	}`, string(data))

	// Notifications omit the id field entirely rather than sending null.
	notif := &Request{JSONRPC: JSONRPCVersion, Method: "notifications/initialized"}
	data, err = json.Marshal(notif)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"id"`)
}

func TestResponse_UnmarshalJSON(t *testing.T) {
	var success Response
	require.NoError(t, json.Unmarshal([]byte(`{
		"jsonrpc": "2.0",
		"id": "req-1",
		"result": {"tools": []}
	}`), &success))
	assert.Equal(t, JSONRPCVersion, success.JSONRPC)
	require.NotNil(t, success.ID.Str)
	assert.Equal(t, "req-1", *success.ID.Str)
	assert.JSONEq(t, `{"tools": []}`, string(success.Result))
	assert.Nil(t, success.Error)

	var failure Response
	require.NoError(t, json.Unmarshal([]byte(`{
		"jsonrpc": "2.0",
		"id": 1,
		"error": {"code": -32601, "message": "method not found: tools/uninstall"}
	}`), &failure))
	require.NotNil(t, failure.Error)
	assert.Equal(t, MethodNotFound, failure.Error.Code)
	assert.Contains(t, failure.Error.Message, "tools/uninstall")
}

func TestError_MarshalAndFormat(t *testing.T) {
	plain := &Error{Code: MethodNotFound, Message: "method not found"}
	data, err := json.Marshal(plain)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code": -32601, "message": "method not found"}`, string(data))
	assert.Equal(t, "JSON-RPC error -32601: method not found", plain.Error())

	withData := NewError(InvalidParams, "invalid params", map[string]string{"field": "name"})
	data, err = json.Marshal(withData)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code": -32602, "message": "invalid params", "data": {"field":"name"}}`, string(data))
	assert.Contains(t, withData.Error(), `{"field":"name"}`)
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, -32700, ParseError)
	assert.Equal(t, -32600, InvalidRequest)
	assert.Equal(t, -32601, MethodNotFound)
	assert.Equal(t, -32602, InvalidParams)
	assert.Equal(t, -32603, InternalError)
}

func TestValidateRequestBasic(t *testing.T) {
	valid := &Request{JSONRPC: JSONRPCVersion, ID: NewNumericRequestID(1), Method: "ping"}
	assert.NoError(t, ValidateRequest(valid))

	badVersion := &Request{JSONRPC: "1.0", ID: NewNumericRequestID(1), Method: "ping"}
	assert.Error(t, ValidateRequest(badVersion))

	noMethod := &Request{JSONRPC: JSONRPCVersion, ID: NewNumericRequestID(1)}
	assert.Error(t, ValidateRequest(noMethod))
}

func TestValidateResponseBasic(t *testing.T) {
	valid := &Response{JSONRPC: JSONRPCVersion, ID: NewNumericRequestID(1), Result: json.RawMessage(`{}`)}
	assert.NoError(t, ValidateResponse(valid))

	badVersion := &Response{JSONRPC: "", ID: NewNumericRequestID(1)}
	assert.Error(t, ValidateResponse(badVersion))
}
