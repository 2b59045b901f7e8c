package handler

import (
	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

// --- Request → Service input ---

func toSignupInput(req signupRequest) ports.SignupInput {
	return ports.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
	}
}

func toProductInput(req productRequest) ports.ProductInput {
	return ports.ProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       req.Image,
	}
}

func toProductPatch(req productPatchRequest) ports.ProductPatch {
	return ports.ProductPatch{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       req.Image,
	}
}

// --- Domain → HTTP response ---

func toUserSummary(u *domain.User) userSummary {
	return userSummary{ID: u.ID, Name: u.Name, Email: u.Email, Address: u.Address}
}

func toAdminSummary(a *domain.Admin) adminSummary {
	return adminSummary{ID: a.ID, Name: a.Name, Email: a.Email}
}

func toProductBody(p *domain.Product) productBody {
	return productBody{
		ID:          p.ID,
		Name:        p.Name,
		Category:    string(p.Category),
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

func toProductBodies(products []*domain.Product) []productBody {
	out := make([]productBody, 0, len(products))
	for _, p := range products {
		out = append(out, toProductBody(p))
	}
	return out
}

func toCartBody(v *domain.CartView) cartBody {
	items := make([]cartLineBody, 0, len(v.Lines))
	for _, line := range v.Lines {
		items = append(items, cartLineBody{Product: toProductBody(line.Product), Quantity: line.Quantity})
	}
	return cartBody{ID: v.ID, User: v.UserID, Items: items, UpdatedAt: v.UpdatedAt.UTC()}
}

func toOrderBody(v *domain.OrderView) orderBody {
	o := v.Order
	items := make([]orderItemBody, 0, len(v.Lines))
	for _, line := range v.Lines {
		item := orderItemBody{Quantity: line.Item.Quantity, Price: line.Item.Price}
		if line.Product != nil {
			p := toProductBody(line.Product)
			item.Product = &p
		}
		items = append(items, item)
	}

	history := make([]statusEntryBody, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, statusEntryBody{Status: string(h.Status), Timestamp: h.Timestamp.UTC()})
	}

	return orderBody{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		User:            o.UserID,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		Phone:           o.Phone,
		PaymentMethod:   string(o.PaymentMethod),
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		Total:           o.Total,
		Status:          string(o.Status),
		StatusHistory:   history,
		CreatedAt:       o.CreatedAt.UTC(),
	}
}

func toOrderBodies(views []*domain.OrderView) []orderBody {
	out := make([]orderBody, 0, len(views))
	for _, v := range views {
		out = append(out, toOrderBody(v))
	}
	return out
}
