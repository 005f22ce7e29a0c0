package usecase

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"pos/internal/domain/model"
	"pos/internal/domain/pricing"
	"pos/internal/logger"
	repo "pos/internal/repository"

	"github.com/google/uuid"
)

// 購入結果の区分（メトリクスのラベル）
const (
	PurchaseOutcomeSuccess  = "success"
	PurchaseOutcomeNotFound = "not_found"
	PurchaseOutcomeInvalid  = "invalid"
	PurchaseOutcomeError    = "error"
)

const publishTimeout = 5 * time.Second

// レジから未指定で来たときに入れる値
type PurchaseDefaults struct {
	EmployeeCode string
	StoreCode    string
	TerminalCode string
}

func DefaultPurchaseDefaults() PurchaseDefaults {
	return PurchaseDefaults{
		EmployeeCode: "9999999999",
		StoreCode:    "30",
		TerminalCode: "90",
	}
}

// 購入確定後の通知先（Kafkaなど）
type PurchaseEventPublisher interface {
	PublishPurchaseCompleted(ctx context.Context, ev model.PurchaseCompletedEvent) error
}

// 購入結果の記録先（Prometheusなど）
type PurchaseRecorder interface {
	ObservePurchase(outcome string, totalPrice int64)
}

type nopPublisher struct{}

func (nopPublisher) PublishPurchaseCompleted(context.Context, model.PurchaseCompletedEvent) error {
	return nil
}

type nopRecorder struct{}

func (nopRecorder) ObservePurchase(string, int64) {}

type PurchaseUsecase struct {
	tx        repo.TransactionManager
	defaults  PurchaseDefaults
	tax       pricing.TaxRule
	timeout   time.Duration
	now       func() time.Time
	publisher PurchaseEventPublisher
	recorder  PurchaseRecorder
}

type PurchaseOption func(*PurchaseUsecase)

func WithPurchaseTimeout(d time.Duration) PurchaseOption {
	return func(u *PurchaseUsecase) { u.timeout = d }
}

func WithClock(now func() time.Time) PurchaseOption {
	return func(u *PurchaseUsecase) { u.now = now }
}

func WithPublisher(p PurchaseEventPublisher) PurchaseOption {
	return func(u *PurchaseUsecase) {
		if p != nil {
			u.publisher = p
		}
	}
}

func WithRecorder(r PurchaseRecorder) PurchaseOption {
	return func(u *PurchaseUsecase) {
		if r != nil {
			u.recorder = r
		}
	}
}

// DI
func NewPurchaseUsecase(tx repo.TransactionManager, defaults PurchaseDefaults, tax pricing.TaxRule, opts ...PurchaseOption) *PurchaseUsecase {
	u := &PurchaseUsecase{
		tx:        tx,
		defaults:  defaults,
		tax:       tax,
		now:       time.Now,
		publisher: nopPublisher{},
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type PurchaseLineInput struct {
	ProductCode model.ProductCode
	Quantity    int64
}

type PurchaseInput struct {
	EmployeeCode string
	StoreCode    string
	TerminalCode string
	Lines        []PurchaseLineInput
}

type PurchaseOutput struct {
	Success         bool  `json:"success"`
	TotalPrice      int64 `json:"total_price"`
	TotalPriceExTax int64 `json:"total_price_ex_tax"`

	TransactionID int64 `json:"-"`
}

// Purchaseはかご1つ分を1トランザクションで記録する。
// どれか1行でも失敗したらヘッダも明細も残さない。
func (u *PurchaseUsecase) Purchase(ctx context.Context, in PurchaseInput) (PurchaseOutput, error) {
	in = u.applyDefaults(in)
	if err := validatePurchaseInput(in); err != nil {
		u.recorder.ObservePurchase(PurchaseOutcomeInvalid, 0)
		return PurchaseOutput{}, err
	}

	txCtx := ctx
	if u.timeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	now := u.now()
	var out PurchaseOutput

	err := u.tx.WithinTx(txCtx, func(r repo.TxRepos) error {
		//仮ヘッダ（合計0）
		trdID, err := r.Transactions().Create(txCtx, model.Transaction{
			Datetime:     now,
			EmployeeCode: in.EmployeeCode,
			StoreCode:    in.StoreCode,
			TerminalCode: in.TerminalCode,
			TotalAmount:  0,
		})
		if err != nil {
			return errDB(err)
		}

		//入力順に明細を作る
		lines := make([]model.TransactionLine, 0, len(in.Lines))
		var total, totalExTax int64
		for _, l := range in.Lines {
			p, err := r.Products().FindByCode(txCtx, l.ProductCode)
			if errors.Is(err, repo.ErrNotFound) {
				return errProductNotFound(l.ProductCode)
			}
			if err != nil {
				return errDB(err)
			}

			amt, err := u.tax.Compute(p.Price, l.Quantity)
			if err != nil {
				return WrapHTTPError(http.StatusBadRequest, "amount out of range", err)
			}
			if total > math.MaxInt64-amt.IncTax {
				return WrapHTTPError(http.StatusBadRequest, "amount out of range", pricing.ErrOverflow)
			}
			total += amt.IncTax
			totalExTax += amt.ExTax

			//販売時点のスナップショット
			lines = append(lines, model.TransactionLine{
				ProductID:   p.ID,
				ProductCode: p.Code,
				ProductName: p.Name,
				UnitPrice:   p.Price,
				Quantity:    l.Quantity,
				TaxCategory: u.tax.Category,
			})
		}

		if err := r.TransactionLines().CreateBulk(txCtx, trdID, lines); err != nil {
			return errDB(err)
		}
		if err := r.Transactions().UpdateTotal(txCtx, trdID, total); err != nil {
			return errDB(err)
		}

		out = PurchaseOutput{
			Success:         true,
			TotalPrice:      total,
			TotalPriceExTax: totalExTax,
			TransactionID:   trdID,
		}
		return nil
	})
	if err != nil {
		//コミット失敗などHTTPErrorでないものは500扱い
		if _, ok := AsHTTPError(err); !ok {
			err = errDB(err)
		}
		u.observeFailure(ctx, err)
		return PurchaseOutput{}, err
	}

	u.recorder.ObservePurchase(PurchaseOutcomeSuccess, out.TotalPrice)
	log := logger.FromContext(ctx)
	log.Info().
		Int64("transaction_id", out.TransactionID).
		Int64("total_price", out.TotalPrice).
		Int("lines", len(in.Lines)).
		Msg("purchase committed")

	u.publish(ctx, in, out, now)
	return out, nil
}

func (u *PurchaseUsecase) applyDefaults(in PurchaseInput) PurchaseInput {
	in.EmployeeCode = strings.TrimSpace(in.EmployeeCode)
	in.StoreCode = strings.TrimSpace(in.StoreCode)
	in.TerminalCode = strings.TrimSpace(in.TerminalCode)

	if in.EmployeeCode == "" {
		in.EmployeeCode = u.defaults.EmployeeCode
	}
	if in.StoreCode == "" {
		in.StoreCode = u.defaults.StoreCode
	}
	if in.TerminalCode == "" {
		in.TerminalCode = u.defaults.TerminalCode
	}
	return in
}

// 桁数は文字数で数える（varcharと同じ）
func validatePurchaseInput(in PurchaseInput) error {
	if utf8.RuneCountInString(in.EmployeeCode) > 10 {
		return NewHTTPError(http.StatusBadRequest, "emp_code too long")
	}
	if utf8.RuneCountInString(in.StoreCode) > 5 {
		return NewHTTPError(http.StatusBadRequest, "store_code too long")
	}
	if utf8.RuneCountInString(in.TerminalCode) > 3 {
		return NewHTTPError(http.StatusBadRequest, "pos_no too long")
	}
	//空のかごはヘッダだけの取引になるので受け付けない
	if len(in.Lines) == 0 {
		return NewHTTPError(http.StatusBadRequest, "products required")
	}
	for _, l := range in.Lines {
		if strings.TrimSpace(l.ProductCode.String()) == "" {
			return NewHTTPError(http.StatusBadRequest, "code required")
		}
		if l.Quantity < 1 {
			return NewHTTPError(http.StatusBadRequest, "quantity must be >= 1")
		}
	}
	return nil
}

func (u *PurchaseUsecase) observeFailure(ctx context.Context, err error) {
	log := logger.FromContext(ctx)
	he, _ := AsHTTPError(err)

	switch {
	case he.Status == http.StatusNotFound:
		u.recorder.ObservePurchase(PurchaseOutcomeNotFound, 0)
		var nf *ProductNotFoundError
		if errors.As(err, &nf) {
			log.Info().Str("code", nf.Code.String()).Msg("purchase rejected: product not found")
		}
	case he.Status < http.StatusInternalServerError:
		u.recorder.ObservePurchase(PurchaseOutcomeInvalid, 0)
		log.Info().Err(err).Msg("purchase rejected")
	default:
		u.recorder.ObservePurchase(PurchaseOutcomeError, 0)
		log.Error().Err(err).Msg("purchase rolled back")
	}
}

// コミット後の通知。失敗しても購入は成功のまま。
func (u *PurchaseUsecase) publish(ctx context.Context, in PurchaseInput, out PurchaseOutput, at time.Time) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev := model.PurchaseCompletedEvent{
		EventID:         uuid.NewString(),
		TransactionID:   out.TransactionID,
		StoreCode:       in.StoreCode,
		TerminalCode:    in.TerminalCode,
		EmployeeCode:    in.EmployeeCode,
		TotalPrice:      out.TotalPrice,
		TotalPriceExTax: out.TotalPriceExTax,
		OccurredAt:      at.UTC(),
	}
	if err := u.publisher.PublishPurchaseCompleted(pubCtx, ev); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).
			Int64("transaction_id", out.TransactionID).
			Msg("purchase event publish failed")
	}
}
