package form

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	poapp "github.com/erp/purchase-orders/internal/application/purchasing"
	"github.com/erp/purchase-orders/internal/client"
	"github.com/erp/purchase-orders/internal/domain/purchasing"
	"github.com/erp/purchase-orders/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time {
	return time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
}

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) List(ctx context.Context, opts client.ListOptions) (*client.ListResult, error) {
	args := m.Called(ctx, opts)
	if r := args.Get(0); r != nil {
		return r.(*client.ListResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) CreateWithKey(ctx context.Context, key string, req poapp.CreatePurchaseOrderRequest) (*poapp.PurchaseOrderResponse, error) {
	args := m.Called(ctx, key, req)
	if r := args.Get(0); r != nil {
		return r.(*poapp.PurchaseOrderResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) Update(ctx context.Context, id int64, req poapp.CreatePurchaseOrderRequest) (*poapp.PurchaseOrderResponse, error) {
	args := m.Called(ctx, id, req)
	if r := args.Get(0); r != nil {
		return r.(*poapp.PurchaseOrderResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func fillValid(t *testing.T, c *Controller) {
	t.Helper()
	for field, value := range map[string]string{
		purchasing.FieldPoNumber:     "PO-2025-001",
		purchasing.FieldDescription:  "Office chairs",
		purchasing.FieldSupplierName: "Acme Co",
		purchasing.FieldOrderDate:    "2025-06-01",
		purchasing.FieldTotalAmount:  "150.00",
		purchasing.FieldStatus:       "Draft",
	} {
		require.NoError(t, c.SetField(field, value))
	}
}

func TestNew_DefaultDraft(t *testing.T) {
	c := New(&mockAPI{}, WithClock(fixedNow))

	d := c.Draft()
	assert.Zero(t, d.ID)
	assert.Equal(t, "Draft", d.Status)
	assert.Equal(t, "2025-06-15", d.OrderDate)
	assert.Empty(t, c.FieldErrors())
	assert.Equal(t, ActionNone, c.Pending().Kind)
	assert.NotNil(t, c.Orders())
}

func TestController_SetField(t *testing.T) {
	c := New(&mockAPI{}, WithClock(fixedNow))

	require.NoError(t, c.SetField(purchasing.FieldTotalAmount, "-5"))
	assert.Equal(t, []string{purchasing.MsgAmountMin}, c.FieldErrors()[purchasing.FieldTotalAmount])
	// other fields are not validated yet
	assert.Equal(t, []string{purchasing.FieldTotalAmount}, c.FieldNames())

	require.NoError(t, c.SetField(purchasing.FieldTotalAmount, "12.50"))
	assert.Empty(t, c.FieldErrors())

	err := c.SetField("password", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestController_OrderDateRange(t *testing.T) {
	c := New(&mockAPI{}, WithClock(fixedNow))

	require.NoError(t, c.SetField(purchasing.FieldOrderDate, "2014-01-01"))
	assert.Equal(t, []string{purchasing.MsgOrderDatePast}, c.FieldErrors()[purchasing.FieldOrderDate])

	require.NoError(t, c.SetField(purchasing.FieldOrderDate, "2027-01-01"))
	assert.Equal(t, []string{purchasing.MsgOrderDateFuture}, c.FieldErrors()[purchasing.FieldOrderDate])

	require.NoError(t, c.SetField(purchasing.FieldOrderDate, "2026-01-01"))
	assert.Empty(t, c.FieldErrors())
}

func TestController_RequestSubmitInvalid(t *testing.T) {
	api := &mockAPI{}
	c := New(api, WithClock(fixedNow))

	prompt, err := c.RequestSubmit()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, prompt)
	assert.False(t, c.IsValid())
	assert.Equal(t, ActionNone, c.Pending().Kind)

	errs := c.FieldErrors()
	assert.Equal(t, []string{purchasing.MsgPoNumberRequired}, errs[purchasing.FieldPoNumber])
	assert.Equal(t, []string{purchasing.MsgAmountRequired}, errs[purchasing.FieldTotalAmount])

	assert.ErrorIs(t, c.Confirm(context.Background()), ErrNothingPending)
	api.AssertNotCalled(t, "CreateWithKey", mock.Anything, mock.Anything, mock.Anything)
}

func TestController_CreateFlow(t *testing.T) {
	ctx := context.Background()
	api := &mockAPI{}
	c := New(api, WithClock(fixedNow))
	fillValid(t, c)
	require.True(t, c.IsValid())

	prompt, err := c.RequestSubmit()
	require.NoError(t, err)
	assert.Equal(t, PromptCreate, prompt)
	assert.Equal(t, PendingAction{Kind: ActionCreate}, c.Pending())

	// nothing is sent before the confirm
	api.AssertNotCalled(t, "CreateWithKey", mock.Anything, mock.Anything, mock.Anything)

	created := poapp.PurchaseOrderResponse{ID: 1, PoNumber: "PO-2025-001", TotalAmount: "150.00"}
	api.On("CreateWithKey", ctx, mock.AnythingOfType("string"), mock.MatchedBy(func(req poapp.CreatePurchaseOrderRequest) bool {
		return req.PoNumber == "PO-2025-001" && string(req.TotalAmount) == "150.00"
	})).Return(&created, nil).Once()
	api.On("List", ctx, client.ListOptions{}).
		Return(&client.ListResult{Items: []poapp.PurchaseOrderResponse{created}, Total: 1}, nil).Once()

	require.NoError(t, c.Confirm(ctx))
	api.AssertExpectations(t)

	assert.Equal(t, ActionNone, c.Pending().Kind)
	assert.Empty(t, c.Draft().PoNumber)
	assert.Len(t, c.Orders(), 1)
	assert.Equal(t, int64(1), c.Total())
	assert.Empty(t, c.Banner())
}

func TestController_CreateKeyPerDraft(t *testing.T) {
	ctx := context.Background()
	unreachable := &client.TransportError{Err: errors.New("connection reset")}

	keys := []string{"key-1", "key-2", "key-3"}
	nextKey := func() string {
		k := keys[0]
		keys = keys[1:]
		return k
	}

	t.Run("a retried draft reuses its key", func(t *testing.T) {
		api := &mockAPI{}
		c := New(api, WithClock(fixedNow), WithIdempotencyKeys(nextKey))
		fillValid(t, c)

		api.On("CreateWithKey", ctx, "key-1", mock.Anything).Return(nil, unreachable).Twice()

		_, err := c.RequestSubmit()
		require.NoError(t, err)
		require.ErrorIs(t, c.Confirm(ctx), unreachable)
		_, err = c.RequestSubmit()
		require.NoError(t, err)
		require.ErrorIs(t, c.Confirm(ctx), unreachable)
		api.AssertExpectations(t)

		// an edited draft is a new request
		require.NoError(t, c.SetField(purchasing.FieldDescription, "Office chairs, black"))
		api.On("CreateWithKey", ctx, "key-2", mock.Anything).Return(nil, unreachable).Once()
		_, err = c.RequestSubmit()
		require.NoError(t, err)
		require.Error(t, c.Confirm(ctx))
		api.AssertExpectations(t)
	})

	t.Run("a replayed key means the create went through", func(t *testing.T) {
		api := &mockAPI{}
		c := New(api, WithClock(fixedNow), WithIdempotencyKeys(nextKey))
		fillValid(t, c)

		api.On("CreateWithKey", ctx, "key-3", mock.Anything).Return(nil, &client.APIError{
			StatusCode: http.StatusConflict,
			Code:       dto.ErrCodeDuplicateRequest,
			Message:    "A request with this Idempotency-Key has already been processed",
		}).Once()
		api.On("List", ctx, client.ListOptions{}).Return(&client.ListResult{Items: []poapp.PurchaseOrderResponse{}}, nil).Once()

		_, err := c.RequestSubmit()
		require.NoError(t, err)
		require.NoError(t, c.Confirm(ctx))
		api.AssertExpectations(t)
		assert.Empty(t, c.Banner())
		assert.Empty(t, c.Draft().PoNumber)
	})
}

func TestController_EditShowsDecodedText(t *testing.T) {
	c := New(&mockAPI{}, WithClock(fixedNow))

	c.Edit(poapp.PurchaseOrderResponse{
		ID:           3,
		PoNumber:     "PO-2025-003",
		Description:  "Desks &lt;oak&gt; &amp; chairs",
		SupplierName: "Acme &amp; Co",
		OrderDate:    "2025-05-20",
		TotalAmount:  "80.00",
		Status:       "Draft",
	})

	assert.Equal(t, "Acme & Co", c.Draft().SupplierName)
	assert.Equal(t, "Desks <oak> & chairs", c.Draft().Description)
	assert.True(t, c.IsValid())
}

func TestController_UpdateFlow(t *testing.T) {
	ctx := context.Background()
	api := &mockAPI{}
	c := New(api, WithClock(fixedNow))

	c.Edit(poapp.PurchaseOrderResponse{
		ID:           7,
		PoNumber:     "PO-2025-007",
		Description:  "Laptops for staff",
		SupplierName: "Globex",
		OrderDate:    "2025-05-20",
		TotalAmount:  "2400.00",
		Status:       "Approved",
	})
	assert.Equal(t, "2400.00", c.Draft().TotalAmount)
	require.NoError(t, c.SetField(purchasing.FieldStatus, "Shipped"))

	prompt, err := c.RequestSubmit()
	require.NoError(t, err)
	assert.Equal(t, PromptUpdate, prompt)
	assert.Equal(t, PendingAction{Kind: ActionUpdate, ID: 7}, c.Pending())

	api.On("Update", ctx, int64(7), mock.MatchedBy(func(req poapp.CreatePurchaseOrderRequest) bool {
		return req.Status == "Shipped"
	})).Return(&poapp.PurchaseOrderResponse{ID: 7, Status: "Shipped"}, nil).Once()
	api.On("List", ctx, client.ListOptions{}).Return(&client.ListResult{Items: []poapp.PurchaseOrderResponse{}}, nil).Once()

	require.NoError(t, c.Confirm(ctx))
	api.AssertExpectations(t)
	assert.Zero(t, c.Draft().ID)
}

func TestController_ServerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantBanner string
		wantFields map[string][]string
	}{
		{
			name: "duplicate PO number",
			err: &client.APIError{
				StatusCode: http.StatusBadRequest,
				Code:       dto.ErrCodeAlreadyExists,
				Message:    "PO Number 'PO-2025-001' already exists. Please use a unique PO Number.",
			},
			wantBanner: "PO Number 'PO-2025-001' already exists. Please use a unique PO Number.",
			wantFields: map[string][]string{purchasing.FieldPoNumber: {purchasing.MsgDuplicateDetail}},
		},
		{
			name: "field errors from server",
			err: &client.APIError{
				StatusCode:  http.StatusBadRequest,
				Code:        dto.ErrCodeValidation,
				Message:     purchasing.MsgValidationFailed,
				FieldErrors: map[string][]string{purchasing.FieldDescription: {purchasing.MsgDescriptionUnsafe}},
			},
			wantFields: map[string][]string{purchasing.FieldDescription: {purchasing.MsgDescriptionUnsafe}},
		},
		{
			name:       "record gone",
			err:        &client.APIError{StatusCode: http.StatusNotFound, Code: dto.ErrCodeNotFound, Message: purchasing.MsgNotFound},
			wantBanner: purchasing.MsgNotFound,
			wantFields: map[string][]string{},
		},
		{
			name:       "server unreachable",
			err:        &client.TransportError{Err: errors.New("connection refused")},
			wantBanner: BannerUnreachable,
			wantFields: map[string][]string{},
		},
		{
			name:       "anything else",
			err:        errors.New("decode failed"),
			wantBanner: BannerUnexpected,
			wantFields: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			api := &mockAPI{}
			api.On("CreateWithKey", ctx, mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			c := New(api, WithClock(fixedNow))
			fillValid(t, c)
			_, err := c.RequestSubmit()
			require.NoError(t, err)

			err = c.Confirm(ctx)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.wantBanner, c.Banner())
			assert.Equal(t, tt.wantFields, c.FieldErrors())
			// the draft survives a failed write
			assert.Equal(t, "PO-2025-001", c.Draft().PoNumber)
			api.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestController_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel sends nothing", func(t *testing.T) {
		api := &mockAPI{}
		c := New(api, WithClock(fixedNow))

		assert.Equal(t, PromptDelete, c.RequestDelete(3))
		assert.Equal(t, PendingAction{Kind: ActionDelete, ID: 3}, c.Pending())
		c.Cancel()

		assert.ErrorIs(t, c.Confirm(ctx), ErrNothingPending)
		api.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("confirm keeps an unrelated draft", func(t *testing.T) {
		api := &mockAPI{}
		api.On("Delete", ctx, int64(3)).Return(nil).Once()
		api.On("List", ctx, client.ListOptions{}).Return(&client.ListResult{Items: []poapp.PurchaseOrderResponse{}}, nil).Once()

		c := New(api, WithClock(fixedNow))
		require.NoError(t, c.SetField(purchasing.FieldPoNumber, "PO-2025-009"))
		c.RequestDelete(3)

		require.NoError(t, c.Confirm(ctx))
		api.AssertExpectations(t)
		assert.Equal(t, "PO-2025-009", c.Draft().PoNumber)
	})
}

func TestController_LoadFailure(t *testing.T) {
	ctx := context.Background()
	api := &mockAPI{}
	api.On("List", ctx, client.ListOptions{Status: "Draft"}).
		Return(&client.ListResult{Items: []poapp.PurchaseOrderResponse{{ID: 1}}, Total: 1}, nil).Once()
	api.On("List", ctx, client.ListOptions{Status: "Draft"}).
		Return(nil, &client.TransportError{Err: errors.New("refused")}).Once()

	c := New(api, WithListOptions(client.ListOptions{Status: "Draft"}))

	require.NoError(t, c.Load(ctx))
	assert.Len(t, c.Orders(), 1)

	assert.NotPanics(t, func() {
		assert.Error(t, c.Load(ctx))
	})
	assert.NotNil(t, c.Orders())
	assert.Empty(t, c.Orders())
	assert.Zero(t, c.Total())
	assert.Equal(t, BannerLoadFailed, c.Banner())
}

func TestController_WithHTTPClient(t *testing.T) {
	var writes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			w.Header().Set(dto.HeaderTotalCount, "0")
			_, _ = w.Write([]byte(`[]`))
		case http.MethodPost:
			writes.Add(1)
			assert.NotEmpty(t, r.Header.Get(dto.HeaderIdempotencyKey))
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(dto.NewErrorResponse(dto.ErrCodeAlreadyExists,
				"PO Number 'PO-2025-001' already exists. Please use a unique PO Number.",
				purchasing.MsgDuplicateDetail))
		default:
			t.Errorf("unexpected %s", r.Method)
		}
	}))
	t.Cleanup(srv.Close)

	api, err := client.New(srv.URL + "/api/v1")
	require.NoError(t, err)

	ctx := context.Background()
	c := New(api, WithClock(fixedNow))
	require.NoError(t, c.Load(ctx))

	fillValid(t, c)
	_, err = c.RequestSubmit()
	require.NoError(t, err)
	assert.Zero(t, writes.Load())

	var apiErr *client.APIError
	require.ErrorAs(t, c.Confirm(ctx), &apiErr)
	assert.True(t, apiErr.IsDuplicate())
	assert.Equal(t, int32(1), writes.Load())
	assert.Contains(t, c.Banner(), "already exists")
	assert.True(t, c.FieldErrors()[purchasing.FieldPoNumber] != nil)
}
