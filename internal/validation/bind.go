package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// MaxBodyBytes caps the order payload.
const MaxBodyBytes = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON body")

// Bind decodes the JSON body into out. Any decoding failure, including an
// empty or oversized body or anything after the first JSON value, is
// reported as ErrClientInput.
func Bind(c *gin.Context, out interface{}) error {
	if c.Request.Body == nil {
		return fmt.Errorf("%w: empty body", ErrClientInput)
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	dec := json.NewDecoder(c.Request.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrClientInput, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrClientInput, errTrailingData)
	}

	if binding.Validator != nil {
		if err := binding.Validator.ValidateStruct(out); err != nil {
			return fmt.Errorf("%w: %v", ErrClientInput, err)
		}
	}
	return nil
}
