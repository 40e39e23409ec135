package service_test

import (
	"testing"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventory(t *testing.T, backend *fakeBackend) service.InventoryService {
	t.Helper()
	st := newTestStore(t, backend)
	return service.NewInventoryService(st, newTestHub(), zerolog.Nop())
}

func TestCreateProduct(t *testing.T) {
	svc := newInventory(t, &fakeBackend{})

	product := testProduct(10, nil)
	product.ID = uuid.Nil
	require.NoError(t, svc.CreateProduct(&product, "seller-1"))

	assert.NotEqual(t, uuid.Nil, product.ID)
	require.NotNil(t, product.SellerID)
	assert.Equal(t, "seller-1", *product.SellerID)

	listed := svc.GetProducts()
	require.Len(t, listed, 1)
	assert.Equal(t, "KF-001", listed[0].SKU)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	existing := testProduct(10, nil)
	svc := newInventory(t, &fakeBackend{products: []model.Product{existing}})

	dup := testProduct(5, nil)
	dup.ID = uuid.Nil
	dup.SKU = "kf-001" // case-insensitive
	assert.ErrorIs(t, svc.CreateProduct(&dup, ""), service.ErrSKUExists)
}

func TestCreateProductRejectsNegativeFigures(t *testing.T) {
	svc := newInventory(t, &fakeBackend{})

	negativeStock := testProduct(-1, nil)
	assert.Error(t, svc.CreateProduct(&negativeStock, ""))

	negativeOption := testProduct(5, model.VariantGroups{
		{Label: "Size", Options: []model.VariantOption{{Label: "L", Stock: -2}}},
	})
	assert.Error(t, svc.CreateProduct(&negativeOption, ""))

	negativeAddon := testProduct(5, model.VariantGroups{
		{Label: "Size", Options: []model.VariantOption{{Label: "L", PriceAddon: -100}}},
	})
	assert.Error(t, svc.CreateProduct(&negativeAddon, ""))
}

func TestCreateProductValidation(t *testing.T) {
	svc := newInventory(t, &fakeBackend{})

	noName := testProduct(5, nil)
	noName.Name = ""
	assert.Error(t, svc.CreateProduct(&noName, ""))
}

func TestUpdateProductClampsStock(t *testing.T) {
	existing := testProduct(10, nil)
	svc := newInventory(t, &fakeBackend{products: []model.Product{existing}})

	edit := existing
	edit.Stock = -5
	updated, err := svc.UpdateProduct(existing.ID, &edit, "")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
}

func TestUpdateProductForbidden(t *testing.T) {
	owner := "seller-1"
	existing := testProduct(10, nil)
	existing.SellerID = &owner
	svc := newInventory(t, &fakeBackend{products: []model.Product{existing}})

	edit := existing
	_, err := svc.UpdateProduct(existing.ID, &edit, "seller-2")
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestDeleteProduct(t *testing.T) {
	existing := testProduct(10, nil)
	svc := newInventory(t, &fakeBackend{products: []model.Product{existing}})

	require.NoError(t, svc.DeleteProduct(existing.ID, ""))
	assert.Empty(t, svc.GetProducts())

	err := svc.DeleteProduct(existing.ID, "")
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}
