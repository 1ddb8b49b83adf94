package xmlrpc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"

	kolo "github.com/kolo/xmlrpc"

	"github.com/yndnr/xrpc-go/internal/core/domain"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`

// wireCall is the envelope of a methodCall with each param kept as raw XML.
type wireCall struct {
	XMLName xml.Name    `xml:"methodCall"`
	Method  string      `xml:"methodName"`
	Params  []wireParam `xml:"params>param"`
}

type wireParam struct {
	Value struct {
		Inner []byte `xml:",innerxml"`
	} `xml:"value"`
}

// EncodeCall encodes a methodCall document.
func EncodeCall(method string, params []domain.Value) ([]byte, error) {
	if params == nil {
		params = []domain.Value{}
	}
	return kolo.EncodeMethodCall(method, params...)
}

// DecodeCall parses a methodCall document into its method name and
// positional params.
func DecodeCall(body []byte) (string, []domain.Value, error) {
	var call wireCall
	if err := xml.Unmarshal(body, &call); err != nil {
		return "", nil, fmt.Errorf("parse method call: %w", err)
	}

	params := make([]domain.Value, 0, len(call.Params))
	for i, p := range call.Params {
		v, err := decodeValue(p.Value.Inner)
		if err != nil {
			return "", nil, fmt.Errorf("decode param %d: %w", i, err)
		}
		params = append(params, v)
	}
	return call.Method, params, nil
}

// EncodeResponse encodes v as a successful methodResponse.
func EncodeResponse(v domain.Value) ([]byte, error) {
	inner, err := marshalValue(v)
	if err != nil {
		return nil, err
	}
	return wrapResponse(inner), nil
}

// EncodeFault encodes a fault methodResponse.
func EncodeFault(code int, message string) []byte {
	var msg bytes.Buffer
	_ = xml.EscapeText(&msg, []byte(message))

	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString("<methodResponse><fault><value><struct>")
	fmt.Fprintf(&b, "<member><name>faultCode</name><value><int>%d</int></value></member>", code)
	fmt.Fprintf(&b, "<member><name>faultString</name><value><string>%s</string></value></member>", msg.String())
	b.WriteString("</struct></value></fault></methodResponse>")
	return b.Bytes()
}

// DecodeResponse decodes a methodResponse. A fault is returned as
// *domain.FaultError; malformed documents return a plain error.
func DecodeResponse(body []byte) (domain.Value, error) {
	resp := kolo.Response(body)
	if err := resp.Err(); err != nil {
		var fault kolo.FaultError
		if errors.As(err, &fault) {
			return nil, domain.NewFaultError(fault.Code, fault.String)
		}
		return nil, fmt.Errorf("decode fault: %w", err)
	}

	var v any
	if err := resp.Unmarshal(&v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return v, nil
}

// marshalValue renders v as the inner XML of a <value> element, reusing
// the call encoder so both directions share one type mapping.
func marshalValue(v domain.Value) ([]byte, error) {
	if v == nil {
		return []byte("<nil/>"), nil
	}
	doc, err := kolo.EncodeMethodCall("value", v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var call wireCall
	if err := xml.Unmarshal(doc, &call); err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	if len(call.Params) != 1 {
		return nil, fmt.Errorf("encode value: got %d params", len(call.Params))
	}
	return call.Params[0].Value.Inner, nil
}

func decodeValue(inner []byte) (domain.Value, error) {
	var v any
	if err := kolo.Response(wrapResponse(inner)).Unmarshal(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func wrapResponse(inner []byte) []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString("<methodResponse><params><param><value>")
	b.Write(inner)
	b.WriteString("</value></param></params></methodResponse>")
	return b.Bytes()
}
