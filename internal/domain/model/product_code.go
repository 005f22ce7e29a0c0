package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidProductCode = errors.New("invalid product code")

// ProductCode は商品コード（JANなど）。
// レジ画面は文字列、旧APIは数値で送ってくるので、JSONではどちらも受け付ける。
type ProductCode string

func (c ProductCode) String() string { return string(c) }

func (c *ProductCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = ProductCode(strings.TrimSpace(s))
		return nil
	}

	//数値はそのまま桁を保持する（float変換しない）
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return ErrInvalidProductCode
	}
	if _, err := n.Int64(); err != nil {
		return ErrInvalidProductCode
	}
	*c = ProductCode(n.String())
	return nil
}
