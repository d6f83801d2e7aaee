package payer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryFind(t *testing.T) {
	name := gofakeit.Name()
	email := gofakeit.Email()

	testCases := []struct {
		desc    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
		want    *Record
	}{
		{
			desc: "Found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("FROM students WHERE student_id").
					WithArgs("BWU/BCA/21/001").
					WillReturnRows(pgxmock.NewRows([]string{"student_id", "name", "email", "parent_phone"}).
						AddRow("BWU/BCA/21/001", name, email, "+919800000002"))
			},
			want: &Record{ID: "BWU/BCA/21/001", Name: name, Email: email, FallbackPhone: "+919800000002"},
		},
		{
			desc: "Missing",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("FROM students WHERE student_id").
					WithArgs("BWU/BCA/21/001").
					WillReturnRows(pgxmock.NewRows([]string{"student_id", "name", "email", "parent_phone"}))
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tc.setup(mock)

			got, err := NewRepository(mock).Find(context.Background(), "BWU/BCA/21/001")
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payers.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"student_id": "S1", "name": "Ananya Sen", "email": "ananya@example.edu", "parent_phone": "+919800000003"},
		{"student_id": "S2", "name": "Rahul Das"}
	]`), 0o600))

	d, err := LoadSeedFile(path)
	require.NoError(t, err)

	r, err := d.Find(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, "+919800000003", r.FallbackPhone)

	r, err = d.Find(context.Background(), "S2")
	require.NoError(t, err)
	assert.Empty(t, r.Email)

	_, err = d.Find(context.Background(), "S3")
	assert.ErrorIs(t, err, ErrNotFound)

	d.Add(Record{ID: "S3", Name: "Late Joiner"})
	_, err = d.Find(context.Background(), "S3")
	assert.NoError(t, err)
}
