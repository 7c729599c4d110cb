package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
)

type fakeIndexer struct {
	ids []int64
	err error
}

func (f *fakeIndexer) IndexCustomerByID(ctx context.Context, id int64) error {
	f.ids = append(f.ids, id)
	return f.err
}

func TestProcessReservationCreatedIndexesCustomer(t *testing.T) {
	indexer := &fakeIndexer{}
	h := NewSearchSyncHandler(indexer)

	err := h.ProcessReservationCreated(context.Background(), []byte(`{"reservation_id":1,"date":"2025-03-10","customer_id":12}`))

	require.NoError(t, err)
	assert.Equal(t, []int64{12}, indexer.ids)
}

func TestProcessReservationCreatedSkipsRegisteredUsers(t *testing.T) {
	indexer := &fakeIndexer{}
	h := NewSearchSyncHandler(indexer)

	err := h.ProcessReservationCreated(context.Background(), []byte(`{"reservation_id":2,"date":"2025-03-10","customer_id":null}`))

	require.NoError(t, err)
	assert.Empty(t, indexer.ids)
}

func TestProcessReservationCreatedErrors(t *testing.T) {
	indexer := &fakeIndexer{err: errors.New("index unavailable")}
	h := NewSearchSyncHandler(indexer)

	err := h.ProcessReservationCreated(context.Background(), []byte(`{"customer_id":7}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, indexer.err)

	err = h.ProcessReservationCreated(context.Background(), []byte(`{`))
	assert.Error(t, err)
	assert.Len(t, indexer.ids, 1)
}

func TestProcessReservationCreatedDeletedCustomer(t *testing.T) {
	indexer := &fakeIndexer{err: apperrors.NotFound("customer not found")}
	h := NewSearchSyncHandler(indexer)

	err := h.ProcessReservationCreated(context.Background(), []byte(`{"customer_id":7}`))

	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
