package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"plant-doctor/api/internal/diagnose"
)

type DiagnosisRepo struct{ DB *sql.DB }

func NewDiagnosisRepo(db *sql.DB) *DiagnosisRepo { return &DiagnosisRepo{DB: db} }

// Find возвращает кэш диагноза для (imageHash, engine, model, language).
// Если maxAge > 0 и запись старше, вернёт sql.ErrNoRows (чтобы вызвать LLM заново).
func (r *DiagnosisRepo) Find(ctx context.Context, imageHash, engine, model, language string, maxAge time.Duration) (diagnose.Diagnosis, error) {
	const q = `select diagnosis_json, created_at
	           from diagnoses_cache
	           where image_hash=$1 and engine=$2 and model=$3 and language=$4`
	var (
		js []byte
		ts time.Time
	)
	if err := r.DB.QueryRowContext(ctx, q, imageHash, engine, model, language).Scan(&js, &ts); err != nil {
		return diagnose.Diagnosis{}, err
	}
	if maxAge > 0 && time.Since(ts) > maxAge {
		return diagnose.Diagnosis{}, sql.ErrNoRows
	}
	var d diagnose.Diagnosis
	if err := json.Unmarshal(js, &d); err != nil {
		// Если кэш битый — считаем, что нет валидной записи
		return diagnose.Diagnosis{}, sql.ErrNoRows
	}
	return d, nil
}

// Upsert сохраняет/обновляет диагноз.
// PK: (image_hash, engine, model, language).
func (r *DiagnosisRepo) Upsert(ctx context.Context, imageHash, engine, model, language string, d diagnose.Diagnosis) error {
	js, _ := json.Marshal(d)
	const q = `
insert into diagnoses_cache(image_hash, engine, model, language, diagnosis_json)
values ($1,$2,$3,$4,$5)
on conflict (image_hash, engine, model, language)
do update set diagnosis_json=excluded.diagnosis_json, created_at=now()`
	_, err := r.DB.ExecContext(ctx, q, imageHash, engine, model, language, js)
	return err
}
