package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationResult(t *testing.T) {
	t.Run("empty result is valid", func(t *testing.T) {
		var r *ValidationResult
		assert.True(t, r.Valid())
		assert.False(t, r.HasCode(CodeEmptyCart))
		assert.NoError(t, (&ValidationResult{}).Err("op"))
	})

	t.Run("issues accumulate without short-circuiting", func(t *testing.T) {
		r := &ValidationResult{}
		r.AddError("options are not available", CodeVariationNotAvailable)
		r.AddError("options have been deleted", CodeVariationDeleted)

		assert.False(t, r.Valid())
		assert.Len(t, r.Issues, 2)
		assert.True(t, r.HasCode(CodeVariationNotAvailable))
		assert.True(t, r.HasCode(CodeVariationDeleted))
		assert.False(t, r.HasCode(CodeEmptyCart))
	})

	t.Run("merge appends all issues", func(t *testing.T) {
		a := &ValidationResult{}
		a.AddError("first", CodeEmptyCart)
		b := &ValidationResult{}
		b.AddError("second", CodeNotPurchasable)
		a.Merge(b)
		a.Merge(nil)

		assert.Len(t, a.Issues, 2)
	})
}

func TestValidationResultErr(t *testing.T) {
	r := &ValidationResult{}
	r.AddError("options are not available", CodeVariationNotAvailable)
	err := r.Err("cart.add_item")
	require.Error(t, err)

	t.Run("joins issue messages", func(t *testing.T) {
		assert.Contains(t, err.Error(), "cart.add_item")
		assert.Contains(t, err.Error(), "options are not available")
	})

	t.Run("satisfies errors.As with code EINVALID", func(t *testing.T) {
		var domainErr *Error
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, EINVALID, domainErr.Code)
		assert.True(t, IsCode(err, EINVALID))
	})

	t.Run("result is recoverable from the chain", func(t *testing.T) {
		recovered := ValidationResultFromError(err)
		require.NotNil(t, recovered)
		assert.True(t, recovered.HasCode(CodeVariationNotAvailable))
	})

	t.Run("result survives an Internal wrap", func(t *testing.T) {
		wrapped := Internal(err, "outer.op", "something failed")
		recovered := ValidationResultFromError(wrapped)
		require.NotNil(t, recovered)
		assert.True(t, recovered.HasCode(CodeVariationNotAvailable))
	})

	t.Run("plain errors carry no result", func(t *testing.T) {
		assert.Nil(t, ValidationResultFromError(errors.New("boom")))
		assert.Nil(t, ValidationResultFromError(nil))
	})
}
