package composer

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestPostResponseSchemaMarksRequiredProperties(t *testing.T) {
	schema := buildPostResponseSchema(false)
	gt.Value(t, schema.Properties["text"]).NotNil()
	gt.Bool(t, schema.Properties["text"].Required).True()
	gt.Value(t, schema.Properties["media_prompt"]).Nil()

	withMedia := buildPostResponseSchema(true)
	gt.Bool(t, withMedia.Properties["text"].Required).True()
	gt.Value(t, withMedia.Properties["media_prompt"]).NotNil()
	gt.Bool(t, withMedia.Properties["media_prompt"].Required).True()
}

func TestReplyResponseSchemaMarksRequiredProperties(t *testing.T) {
	schema := buildReplyResponseSchema()
	gt.Value(t, schema.Properties["text"]).NotNil()
	gt.Bool(t, schema.Properties["text"].Required).True()
}
