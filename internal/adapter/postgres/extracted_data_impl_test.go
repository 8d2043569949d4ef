package postgres

import (
	"testing"

	"github.com/user/extraction-service/internal/entity"
)

func TestJSONColumns_NilValuesEncodeAsEmpty(t *testing.T) {
	social, products, err := encodeJSONColumns(&entity.ExtractedData{})
	if err != nil {
		t.Fatal(err)
	}
	if string(social) != "{}" || string(products) != "[]" {
		t.Errorf("got %s %s", social, products)
	}
	if got := nonNil(nil); got == nil || len(got) != 0 {
		t.Errorf("nonNil: got %#v", got)
	}
}
