// Command solicitar submits a purchase request from the terminal,
// driving the same composer pipeline the browser form uses.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"solicitacao-compras/internal/adapter/logging"
	"solicitacao-compras/internal/composer"
)

type options struct {
	server        string
	date          string
	sector        string
	requestedBy   string
	urgency       string
	justification string
	ccEmail       string
	items         []string
	photo         string
	timeout       time.Duration
	verbose       bool
}

func main() {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "solicitar",
		Short: "Envia uma solicitação de compra",
		Long: `Envia uma solicitação de compra para o servidor de intake.

Cada --item leva "descrição=quantidade"; repita a flag para mais linhas.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.server, "server", "http://localhost:8080", "endereço do servidor de intake")
	flags.StringVar(&opts.date, "data", time.Now().Format("2006-01-02"), "data da solicitação")
	flags.StringVar(&opts.sector, "setor", "", "setor solicitante")
	flags.StringVar(&opts.requestedBy, "requisitado-por", "", "nome de quem requisita")
	flags.StringVar(&opts.urgency, "urgencia", "", "nível de urgência (Baixa, Media, Alta)")
	flags.StringVar(&opts.justification, "justificativa", "", "justificativa da solicitação")
	flags.StringVar(&opts.ccEmail, "copia-email", "", "e-mail para receber cópia")
	flags.StringArrayVar(&opts.items, "item", nil, `linha no formato "descrição=quantidade"`)
	flags.StringVar(&opts.photo, "foto", "", "caminho da foto a anexar")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "timeout da requisição")
	flags.BoolVar(&opts.verbose, "verbose", false, "log detalhado")
	_ = cmd.MarkFlagRequired("setor")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *options) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelInfo
	}
	logger := logging.New(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c := composer.New(strings.TrimRight(opts.server, "/")+"/api/solicitacao", opts.timeout, logger)
	if err := fillItems(c, opts.items); err != nil {
		return err
	}

	err := c.Submit(cmd.Context(), composer.Fields{
		Date:          opts.date,
		Sector:        opts.sector,
		RequestedBy:   opts.requestedBy,
		Urgency:       opts.urgency,
		Justification: opts.justification,
		CcEmail:       opts.ccEmail,
	}, opts.photo)

	status := c.Status()
	if err != nil {
		return fmt.Errorf("erro: %s", status.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), status.Message)
	return nil
}

// fillItems loads the repeated --item flags into the composer's rows.
// The composer starts with one blank row, so the first item edits it
// in place and the rest are appended.
func fillItems(c *composer.Composer, items []string) error {
	for i, raw := range items {
		description, quantity, found := strings.Cut(raw, "=")
		if !found || description == "" {
			return fmt.Errorf("item inválido %q: use \"descrição=quantidade\"", raw)
		}
		if i > 0 {
			c.AddItem()
		}
		if err := c.EditItem(i, composer.ItemDescription, description); err != nil {
			return err
		}
		if err := c.EditItem(i, composer.ItemQuantity, quantity); err != nil {
			return err
		}
	}
	return nil
}
