package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedCompanyEmail = "contato@padaria-central.com"
	seedPassword     = "password"
)

type seedEmployee struct {
	Name  string
	Role  string
	Shift string
	Start string
	End   string
}

var seedEmployees = []seedEmployee{
	{"Ana Souza", "Caixa", "Manhã", "06:00", "14:00"},
	{"Bruno Lima", "Padeiro", "Madrugada", "02:00", "10:00"},
	{"Carla Dias", "Atendente", "Tarde", "14:00", "22:00"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo company and employees for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := sqlx.Connect("pgx", cfg.Database.GetDSN())
		if err != nil {
			log.Fatalf("failed to connect db: %v", err)
		}
		defer db.Close()

		if clearData {
			// child tables go with the company through ON DELETE CASCADE
			if _, err := db.Exec("DELETE FROM empresa WHERE email = $1", seedCompanyEmail); err != nil {
				log.Fatalf("failed to clear seed company: %v", err)
			}
			fmt.Println("Cleared seed company:", seedCompanyEmail)
		}

		var companyID uuid.UUID
		err = db.Get(&companyID, "SELECT id FROM empresa WHERE email = $1", seedCompanyEmail)
		switch {
		case err == nil:
			fmt.Println("seed company already exists; will ensure employees")
		case errors.Is(err, sql.ErrNoRows):
			hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), cfg.Security.BCryptCost)
			if err != nil {
				log.Fatalf("failed to hash password: %v", err)
			}
			companyID = uuid.New()
			if _, err := db.Exec(
				`INSERT INTO empresa (id, nome_fantasia, email, senha, qtd_funcionarios, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, now(), now())`,
				companyID, "Padaria Central", seedCompanyEmail, string(hash), len(seedEmployees),
			); err != nil {
				log.Fatalf("failed to insert seed company: %v", err)
			}
			fmt.Println("Seeded company:", seedCompanyEmail)
		default:
			log.Fatalf("failed to look up seed company: %v", err)
		}

		for _, e := range seedEmployees {
			first, last, _ := strings.Cut(e.Name, " ")

			var exists int
			err := db.Get(&exists, "SELECT 1 FROM funcionario WHERE empresa_id = $1 AND nome = $2 AND sobrenome = $3", companyID, first, last)
			if err == nil {
				continue
			}
			if !errors.Is(err, sql.ErrNoRows) {
				log.Fatalf("failed to look up employee %s: %v", e.Name, err)
			}

			if _, err := db.Exec(
				`INSERT INTO funcionario (id, empresa_id, nome, sobrenome, posicao, turno, hora_inicio, hora_final, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`,
				uuid.New(), companyID, first, last, e.Role, e.Shift, e.Start, e.End,
			); err != nil {
				log.Fatalf("failed to insert employee %s: %v", e.Name, err)
			}
			fmt.Printf("Seeded employee: %s\n", e.Name)
		}

		fmt.Println("Seed data ready; log in with", seedCompanyEmail, "/", seedPassword)
	},
}
