package gateway_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/allmart/storefront/app/models"
	"github.com/allmart/storefront/internal/gateway"
	"github.com/allmart/storefront/pkg/httpclient"
	"github.com/allmart/storefront/pkg/testkit"
)

const base = "http://gateway.test"

func categoryFixture() models.Category {
	return models.Category{
		Name:        "Sarees",
		Description: "Handwoven sarees",
		Image:       "https://i.ibb.co/abc/sarees.jpg",
	}
}

func newClient(t *testing.T, mt *testkit.MockTransport) *gateway.Client {
	t.Helper()
	t.Setenv("GATEWAY_BASE_URL", base)

	httpclient.DefaultClient.Transport = mt
	t.Cleanup(httpclient.ResetTransport)

	return gateway.New(gateway.WithRetries(1))
}

func TestListProducts(t *testing.T) {
	mt := testkit.NewMockTransport().
		Stub(http.MethodGet, base+"/products", 200,
			`[{"_id":"p1","name":"Silk Saree","category":"Sarees","price":"1200","stock":"4","gender":"Women","image":["a","b"]}]`)

	c := newClient(t, mt)

	products, err := c.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 1 || products[0].ID != "p1" || products[0].Name != "Silk Saree" {
		t.Errorf("unexpected products: %+v", products)
	}
}

func TestDeleteProduct_NotFound(t *testing.T) {
	mt := testkit.NewMockTransport().
		Stub(http.MethodDelete, base+"/product/missing", 404, `{"error":"no such product"}`)

	c := newClient(t, mt)

	err := c.DeleteProduct(context.Background(), "missing")
	if !gateway.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateCategory_UsesGatewayCasing(t *testing.T) {
	mt := testkit.NewMockTransport().
		Stub(http.MethodPost, base+"/Postcategory", 201, `{"ok":true}`)

	c := newClient(t, mt)

	err := c.CreateCategory(context.Background(), categoryFixture())
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	for _, e := range mt.AssertAllCalled() {
		t.Error(e)
	}
}

func TestNetworkFailureIsTyped(t *testing.T) {
	mt := testkit.NewMockTransport().
		StubError(http.MethodGet, base+"/products", context.DeadlineExceeded)

	c := newClient(t, mt)

	_, err := c.ListProducts(context.Background())
	if !gateway.IsNetwork(err) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestGatewayErrorCarriesStatus(t *testing.T) {
	mt := testkit.NewMockTransport().
		Stub(http.MethodGet, base+"/users/", 500, `boom`)

	c := newClient(t, mt)

	_, err := c.GetUser(context.Background(), "a@b.c")
	statusErr, ok := err.(*gateway.StatusError)
	if !ok {
		t.Fatalf("expected *StatusError, got %T (%v)", err, err)
	}
	if statusErr.Status != 500 {
		t.Errorf("Status = %d, want 500", statusErr.Status)
	}
}
