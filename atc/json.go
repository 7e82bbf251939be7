package atc

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// The JSON layout matches the files written by earlier tools: arithmetic
// containers are flat objects, FormatBITZ nests its fields under "header".

type jsonHeader struct {
	Format     Format `json:"format"`
	N          int    `json:"n"`
	Ext        string `json:"ext"`
	CarrierLen int    `json:"car_len"`
	StyleLen   int    `json:"sty_len"`
}

type jsonFlat struct {
	Format Format `json:"format"`
	N      int    `json:"n"`
	Ext    string `json:"ext"`
	Data   []byte `json:"data_b64"`
}

type jsonNested struct {
	Header jsonHeader `json:"header"`
	Data   []byte     `json:"data_b64"`
}

// MarshalJSON encodes c with the payload in base64.
func (c *Container) MarshalJSON() ([]byte, error) {
	if c.Format == FormatBITZ {
		return json.Marshal(jsonNested{
			Header: jsonHeader{
				Format:     c.Format,
				N:          c.N,
				Ext:        c.Ext,
				CarrierLen: c.CarrierLen,
				StyleLen:   c.StyleLen,
			},
			Data: c.Payload,
		})
	}
	return json.Marshal(jsonFlat{
		Format: c.Format,
		N:      c.N,
		Ext:    c.Ext,
		Data:   c.Payload,
	})
}

// UnmarshalJSON accepts both the flat and the nested layout.
func (c *Container) UnmarshalJSON(data []byte) error {
	var v struct {
		jsonFlat
		Header *jsonHeader `json:"header"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(ErrCorrupt, err.Error())
	}

	*c = Container{
		Format:  v.Format,
		N:       v.N,
		Ext:     v.Ext,
		Payload: v.Data,
	}
	if h := v.Header; h != nil {
		c.Format = h.Format
		c.N = h.N
		c.Ext = h.Ext
		c.CarrierLen = h.CarrierLen
		c.StyleLen = h.StyleLen
	}
	if c.Format == "" {
		return errors.Wrap(ErrCorrupt, "missing format")
	}
	return nil
}
