package xmlrpc

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/yndnr/xrpc-go/internal/core/domain"
)

func TestCallRoundTrip(t *testing.T) {
	params := []domain.Value{
		"alice",
		42,
		true,
		2.5,
		[]any{"a", "b"},
		map[string]any{"title": "<hello & bye>", "nid": 7},
	}

	body, err := EncodeCall("node.save", params)
	if err != nil {
		t.Fatalf("EncodeCall() error = %v", err)
	}
	if !strings.Contains(string(body), "<methodName>node.save</methodName>") {
		t.Errorf("body missing method name: %s", body)
	}

	method, got, err := DecodeCall(body)
	if err != nil {
		t.Fatalf("DecodeCall() error = %v", err)
	}
	if method != "node.save" {
		t.Errorf("method = %q", method)
	}

	want := []domain.Value{
		"alice",
		int64(42),
		true,
		2.5,
		[]any{"a", "b"},
		map[string]any{"title": "<hello & bye>", "nid": int64(7)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("params = %#v\nwant %#v", got, want)
	}
}

func TestEncodeCall_NoParams(t *testing.T) {
	body, err := EncodeCall("system.listMethods", nil)
	if err != nil {
		t.Fatalf("EncodeCall() error = %v", err)
	}
	method, params, err := DecodeCall(body)
	if err != nil {
		t.Fatalf("DecodeCall() error = %v", err)
	}
	if method != "system.listMethods" || len(params) != 0 {
		t.Errorf("DecodeCall() = %q, %#v", method, params)
	}
}

func TestDecodeCall_Malformed(t *testing.T) {
	if _, _, err := DecodeCall([]byte("<methodCall><methodName>x")); err == nil {
		t.Error("DecodeCall() should fail on truncated XML")
	}
}

func TestResponseRoundTrip(t *testing.T) {
	in := map[string]any{
		"sessid": "abc",
		"user":   map[string]any{"uid": 1, "roles": []any{"admin"}},
	}
	body, err := EncodeResponse(in)
	if err != nil {
		t.Fatalf("EncodeResponse() error = %v", err)
	}

	got, err := DecodeResponse(body)
	if err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}
	want := map[string]any{
		"sessid": "abc",
		"user":   map[string]any{"uid": int64(1), "roles": []any{"admin"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeResponse() = %#v, want %#v", got, want)
	}
}

func TestDecodeResponse_Fault(t *testing.T) {
	got, err := DecodeResponse(EncodeFault(3, "bad method & more"))
	if got != nil {
		t.Errorf("value = %#v, want nil", got)
	}

	fault, ok := domain.AsFault(err)
	if !ok {
		t.Fatalf("error = %v, want *domain.FaultError", err)
	}
	if fault.Code != 3 || fault.Message != "bad method & more" {
		t.Errorf("fault = %+v", fault)
	}
	if !errors.Is(err, domain.ErrRemoteFault) {
		t.Error("fault should match ErrRemoteFault")
	}
}

func TestDecodeResponse_Garbage(t *testing.T) {
	_, err := DecodeResponse([]byte("<html>oops</html>"))
	if err == nil {
		t.Fatal("DecodeResponse() should fail on non XML-RPC body")
	}
	if _, ok := domain.AsFault(err); ok {
		t.Error("garbage must not be reported as a fault")
	}
}
