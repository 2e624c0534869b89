package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/xguz/bravo/bravo/config"
	"github.com/xguz/bravo/bravo/soap"
	"github.com/xguz/bravo/bravo/store"
	"github.com/xguz/bravo/bravo/tax"
	"github.com/xguz/bravo/bravo/util"
	"github.com/xguz/bravo/bravo/wsaa"
	"github.com/xguz/bravo/bravo/wsfe"
)

// Demo: issue one A invoice to a responsable inscripto on the test
// environment. Expects a config file path in BRAVO_CONFIG.
func main() {

	if util.DebugEnabled() {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(util.GetEnvOrFailed("BRAVO_CONFIG"))
	if err != nil {
		panic(err)
	}

	signer, err := wsaa.NewCMSSignerFromFiles(cfg.CertificatePath, cfg.PrivateKeyPath, []byte(cfg.KeyPassword))
	if err != nil {
		panic(err)
	}

	transport := soap.New()
	login := wsaa.NewLoginService(cfg.Environment, wsaa.ServiceWsfe, signer, transport)
	broker := wsaa.NewCredentialBroker(cfg, login, store.NewFileStore(cfg.CacheDir))

	caller := wsfe.NewCaller(cfg.Environment, transport)
	sequence := wsfe.NewSequenceSource(broker, caller)

	batch, err := wsfe.NewBatch(cfg, broker, sequence, caller, tax.ResponsableInscripto, tax.Invoice)
	if err != nil {
		panic(err)
	}

	invoice, err := wsfe.NewInvoice(cfg, wsfe.InvoiceParams{
		Total:          decimal.RequireFromString("1200.00"),
		BuyerCondition: tax.ResponsableInscripto,
		Bracket:        tax.Iva21,
		DocumentType:   "CUIT",
		Concept:        "servicios",
	})
	if err != nil {
		panic(err)
	}
	invoice.SetDocumentNumber("30710151543")

	if err := batch.Add(invoice); err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := batch.Authorize(ctx)
	if err != nil {
		panic(err)
	}

	fmt.Println("authorized:", batch.Authorized())
	for _, outcome := range result.Outcomes {
		fmt.Printf("number %d approved=%v CAE=%s (until %s)\n",
			outcome.Number, outcome.Approved, outcome.Cae, outcome.CaeExpiration.Format("2006-01-02"))
	}
}
