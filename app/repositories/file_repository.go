package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"redpacket/app/models/payment"
	"redpacket/app/models/setting"
	"redpacket/app/models/transfer"
	"redpacket/pkg/filestore"
)

// transferFileRepository JSON 文件实现
type transferFileRepository struct {
	c *filestore.Collection[transfer.Transfer]
}

func newTransferFileRepository(dir string) *transferFileRepository {
	return &transferFileRepository{c: filestore.NewCollection[transfer.Transfer](dir, "transfers")}
}

func (r *transferFileRepository) Create(_ context.Context, t *transfer.Transfer) error {
	t.Touch(time.Now())
	return r.c.Update(func(items []transfer.Transfer) ([]transfer.Transfer, error) {
		for _, item := range items {
			if item.ID == t.ID {
				return nil, fmt.Errorf("transfer %s already exists", t.ID)
			}
		}
		return append(items, *t), nil
	})
}

func (r *transferFileRepository) Get(_ context.Context, id string) (*transfer.Transfer, error) {
	var found *transfer.Transfer
	err := r.c.View(func(items []transfer.Transfer) error {
		for i := range items {
			if items[i].ID == id {
				found = &items[i]
				return nil
			}
		}
		return ErrNotFound
	})
	return found, err
}

func (r *transferFileRepository) Update(_ context.Context, t *transfer.Transfer) error {
	t.Touch(time.Now())
	return r.c.Update(func(items []transfer.Transfer) ([]transfer.Transfer, error) {
		for i := range items {
			if items[i].ID == t.ID {
				items[i] = *t
				return items, nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *transferFileRepository) Delete(_ context.Context, id string) error {
	return r.c.Update(func(items []transfer.Transfer) ([]transfer.Transfer, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *transferFileRepository) List(ctx context.Context, page, size int) ([]transfer.Transfer, int64, error) {
	page, size = normalizePage(page, size)

	all, err := r.All(ctx)
	if err != nil {
		return nil, 0, err
	}

	total := int64(len(all))
	start := (page - 1) * size
	if start >= len(all) {
		return []transfer.Transfer{}, total, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *transferFileRepository) All(_ context.Context) ([]transfer.Transfer, error) {
	var out []transfer.Transfer
	err := r.c.View(func(items []transfer.Transfer) error {
		out = append([]transfer.Transfer(nil), items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// paymentFileRepository JSON 文件实现
type paymentFileRepository struct {
	c *filestore.Collection[payment.Payment]
}

func newPaymentFileRepository(dir string) *paymentFileRepository {
	return &paymentFileRepository{c: filestore.NewCollection[payment.Payment](dir, "payments")}
}

func (r *paymentFileRepository) Create(_ context.Context, p *payment.Payment) error {
	p.Touch(time.Now())
	return r.c.Update(func(items []payment.Payment) ([]payment.Payment, error) {
		for _, item := range items {
			if item.ID == p.ID || item.OrderID == p.OrderID {
				return nil, fmt.Errorf("payment %s already exists", p.OrderID)
			}
		}
		return append(items, *p), nil
	})
}

func (r *paymentFileRepository) Get(_ context.Context, id string) (*payment.Payment, error) {
	return r.find(func(p *payment.Payment) bool { return p.ID == id })
}

func (r *paymentFileRepository) GetByOrderID(_ context.Context, orderID string) (*payment.Payment, error) {
	return r.find(func(p *payment.Payment) bool { return p.OrderID == orderID })
}

func (r *paymentFileRepository) Update(_ context.Context, p *payment.Payment) error {
	p.Touch(time.Now())
	return r.c.Update(func(items []payment.Payment) ([]payment.Payment, error) {
		for i := range items {
			if items[i].ID == p.ID {
				items[i] = *p
				return items, nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *paymentFileRepository) find(match func(*payment.Payment) bool) (*payment.Payment, error) {
	var found *payment.Payment
	err := r.c.View(func(items []payment.Payment) error {
		for i := range items {
			if match(&items[i]) {
				found = &items[i]
				return nil
			}
		}
		return ErrNotFound
	})
	return found, err
}

// settingFileRepository JSON 文件实现
type settingFileRepository struct {
	d *filestore.Document[setting.Setting]
}

func newSettingFileRepository(dir string) *settingFileRepository {
	return &settingFileRepository{d: filestore.NewDocument[setting.Setting](dir, "settings")}
}

func (r *settingFileRepository) Get(_ context.Context) (*setting.Setting, error) {
	s, ok, err := r.d.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return setting.Default(), nil
	}
	s.ID = setting.SingletonID
	return &s, nil
}

func (r *settingFileRepository) Save(_ context.Context, s *setting.Setting) error {
	now := time.Now()
	s.ID = setting.SingletonID
	s.UpdateTime = &now
	return r.d.Save(*s)
}
