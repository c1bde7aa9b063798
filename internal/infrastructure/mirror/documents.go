package mirror

import (
	"groundops-service/internal/domain/entity"
)

// Collection names, also the last segment of the remote path
const (
	CollectionFlights   = "voos"
	CollectionProcesses = "processos"
	CollectionPayments  = "pagamentos"
	CollectionLostItems = "ll"
)

// The wire documents keep the field names already used by the mobile clients.

type flightDoc struct {
	Code        string `json:"codigo"`
	Origin      string `json:"origem,omitempty"`
	Destination string `json:"destino,omitempty"`
	ETA         string `json:"eta"`
	Airline     string `json:"cia,omitempty"`
	CreatedAt   string `json:"criadoEm,omitempty"`
}

type processDoc struct {
	Number      string  `json:"processNumber"`
	Type        string  `json:"tipo"`
	Customer    string  `json:"cliente,omitempty"`
	PNR         string  `json:"pnr,omitempty"`
	Bag         string  `json:"bag,omitempty"`
	Damage      string  `json:"dano,omitempty"`
	Solution    string  `json:"solucao,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"criadoEm"`
	FinalizedAt *string `json:"finalizadoEm,omitempty"`
}

type paymentDoc struct {
	ID            string  `json:"id"`
	FlightCode    string  `json:"vooCodigo,omitempty"`
	ProcessNumber string  `json:"processoNumero,omitempty"`
	Amount        float64 `json:"valor"`
	Currency      string  `json:"moeda"`
	Method        string  `json:"forma"`
	CardBrand     string  `json:"bandeira,omitempty"`
	Installments  int     `json:"parcelas,omitempty"`
	CreatedAt     string  `json:"criadoEm"`
}

type lostItemDoc struct {
	ID          string `json:"id"`
	PIN         string `json:"pin"`
	Flight      string `json:"voo"`
	FoundOn     string `json:"data"`
	Location    string `json:"local"`
	Description string `json:"descricao"`
	CreatedAt   string `json:"criadoEm"`
}

// FlightCodec serializes the flight collection
func FlightCodec() Codec[entity.Flight] {
	return NewJSONCodec(
		func(f entity.Flight) flightDoc {
			d := flightDoc{
				Code:        f.Code,
				Origin:      f.Origin,
				Destination: f.Destination,
				ETA:         FormatTime(f.ETA),
				Airline:     f.Airline,
			}
			if !f.CreatedAt.IsZero() {
				d.CreatedAt = FormatTime(f.CreatedAt)
			}
			return d
		},
		func(d flightDoc) (entity.Flight, bool) {
			eta, ok := ParseTime(d.ETA)
			if !ok || d.Code == "" {
				return entity.Flight{}, false
			}
			f := entity.Flight{
				Code:        d.Code,
				Origin:      d.Origin,
				Destination: d.Destination,
				ETA:         eta,
				Airline:     d.Airline,
			}
			if created, ok := ParseTime(d.CreatedAt); ok {
				f.CreatedAt = created
			}
			return f, true
		},
	)
}

// ProcessCodec serializes the process collection
func ProcessCodec() Codec[entity.Process] {
	return NewJSONCodec(
		func(p entity.Process) processDoc {
			return processDoc{
				Number:      p.Number,
				Type:        string(p.Type),
				Customer:    p.Customer,
				PNR:         p.PNR,
				Bag:         p.Bag,
				Damage:      p.Damage,
				Solution:    string(p.Solution),
				Status:      string(p.Status),
				CreatedAt:   FormatTime(p.CreatedAt),
				FinalizedAt: formatOptionalTime(p.FinalizedAt),
			}
		},
		func(d processDoc) (entity.Process, bool) {
			created, ok := ParseTime(d.CreatedAt)
			if !ok || d.Number == "" {
				return entity.Process{}, false
			}
			typ, status := entity.ProcessType(d.Type), entity.ProcessStatus(d.Status)
			if !entity.ValidProcessType(typ) || !entity.ValidProcessStatus(status) {
				return entity.Process{}, false
			}
			finalized, ok := parseOptionalTime(d.FinalizedAt)
			if !ok {
				return entity.Process{}, false
			}
			return entity.Process{
				Number:      d.Number,
				Type:        typ,
				Status:      status,
				Customer:    d.Customer,
				PNR:         d.PNR,
				Bag:         d.Bag,
				Damage:      d.Damage,
				Solution:    entity.Solution(d.Solution),
				CreatedAt:   created,
				FinalizedAt: finalized,
			}, true
		},
	)
}

// PaymentCodec serializes the payment collection
func PaymentCodec() Codec[entity.Payment] {
	return NewJSONCodec(
		func(p entity.Payment) paymentDoc {
			return paymentDoc{
				ID:            p.ID,
				FlightCode:    p.FlightCode,
				ProcessNumber: p.ProcessNumber,
				Amount:        p.Amount,
				Currency:      p.Currency,
				Method:        string(p.Method),
				CardBrand:     p.CardBrand,
				Installments:  p.Installments,
				CreatedAt:     FormatTime(p.CreatedAt),
			}
		},
		func(d paymentDoc) (entity.Payment, bool) {
			created, ok := ParseTime(d.CreatedAt)
			if !ok || d.ID == "" {
				return entity.Payment{}, false
			}
			return entity.Payment{
				ID:            d.ID,
				FlightCode:    d.FlightCode,
				ProcessNumber: d.ProcessNumber,
				Amount:        d.Amount,
				Currency:      d.Currency,
				Method:        entity.PaymentMethod(d.Method),
				CardBrand:     d.CardBrand,
				Installments:  d.Installments,
				CreatedAt:     created,
			}, true
		},
	)
}

// LostItemCodec serializes the lost-and-found collection
func LostItemCodec() Codec[entity.LostItem] {
	return NewJSONCodec(
		func(i entity.LostItem) lostItemDoc {
			return lostItemDoc{
				ID:          i.ID,
				PIN:         i.PIN,
				Flight:      i.Flight,
				FoundOn:     i.FoundOn,
				Location:    i.Location,
				Description: i.Description,
				CreatedAt:   FormatTime(i.CreatedAt),
			}
		},
		func(d lostItemDoc) (entity.LostItem, bool) {
			created, ok := ParseTime(d.CreatedAt)
			if !ok || d.ID == "" {
				return entity.LostItem{}, false
			}
			return entity.LostItem{
				ID:          d.ID,
				PIN:         d.PIN,
				Flight:      d.Flight,
				FoundOn:     d.FoundOn,
				Location:    d.Location,
				Description: d.Description,
				CreatedAt:   created,
			}, true
		},
	)
}
