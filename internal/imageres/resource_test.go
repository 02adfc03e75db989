package imageres

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodedAndFailed(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	r := Decoded(img)
	assert.Equal(t, StatusLoaded, r.Status())
	assert.Equal(t, image.Image(img), r.Image())
	assert.NoError(t, r.Err())

	calls := 0
	r.OnComplete(func(got image.Image, err error) {
		calls++
		assert.NoError(t, err)
		assert.NotNil(t, got)
	})
	assert.Equal(t, 1, calls, "settled resource calls back synchronously")

	boom := errors.New("boom")
	f := Failed(boom)
	assert.Equal(t, StatusFailed, f.Status())
	assert.ErrorIs(t, f.Err(), boom)
	assert.Nil(t, f.Image())
}

func TestDeferred_NotifiesEveryTime(t *testing.T) {
	d := NewDeferred()
	require.Equal(t, StatusPending, d.Status())

	var seen []error
	d.OnComplete(func(_ image.Image, err error) { seen = append(seen, err) })
	assert.Empty(t, seen)

	d.Resolve(image.NewGray(image.Rect(0, 0, 1, 1)))
	d.Reject(errors.New("reloaded broken"))
	require.Len(t, seen, 2)
	assert.NoError(t, seen[0])
	assert.Error(t, seen[1])
	assert.Equal(t, StatusFailed, d.Status())
}

func TestDeferred_SubscribersInOrder(t *testing.T) {
	d := NewDeferred()
	var order []string
	d.OnComplete(func(image.Image, error) { order = append(order, "first") })
	d.OnComplete(func(image.Image, error) {
		order = append(order, "second")
		// settled by now, so this runs inline without the lock held
		d.OnComplete(func(image.Image, error) { order = append(order, "inline") })
	})

	d.Resolve(image.NewGray(image.Rect(0, 0, 1, 1)))
	assert.Equal(t, []string{"first", "second", "inline"}, order)
	assert.Equal(t, StatusLoaded, d.Status())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "loaded", StatusLoaded.String())
	assert.Equal(t, "failed", StatusFailed.String())
}
