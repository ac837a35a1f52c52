package render

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ratelens/internal/config"
	"ratelens/internal/presentation"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) RenderChart(ctx context.Context, chart presentation.Chart) error {
	return m.Called(ctx, chart).Error(0)
}

func TestMulti_RendersAllInOrder(t *testing.T) {
	ctx := context.Background()
	chart := presentation.Chart{Title: "t"}
	boom := errors.New("boom")

	first := new(mockRenderer)
	second := new(mockRenderer)
	first.On("RenderChart", ctx, chart).Return(boom).Once()
	second.On("RenderChart", ctx, chart).Return(nil).Once()

	err := Multi{first, second}.RenderChart(ctx, chart)
	assert.ErrorIs(t, err, boom)

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestNew(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	var buf bytes.Buffer

	r, err := New(config.RenderConfig{Mode: "console", OutputDir: dir}, &buf, nil)
	require.NoError(t, err)
	assert.IsType(t, &Console{}, r)

	r, err = New(config.RenderConfig{Mode: "workbook", OutputDir: dir}, &buf, nil)
	require.NoError(t, err)
	assert.IsType(t, &Workbook{}, r)

	r, err = New(config.RenderConfig{Mode: "both", OutputDir: dir}, &buf, nil)
	require.NoError(t, err)
	require.IsType(t, Multi{}, r)
	assert.Len(t, r.(Multi), 2)

	_, err = New(config.RenderConfig{Mode: "svg", OutputDir: dir}, &buf, nil)
	assert.Error(t, err)
}
