package httpapi

import (
    "encoding/xml"
    "errors"
    "io"
    "log/slog"
    "net/http"

    "github.com/go-chi/chi/v5"
    json "github.com/goccy/go-json"
    "github.com/google/uuid"
    "gremlin-admin/internal/condition"
    "gremlin-admin/internal/config"
    "gremlin-admin/internal/profxml"
    "gremlin-admin/internal/store"
)

const maxBodyBytes = 1 << 20

type ConditionIssue struct {
    Index         int    `json:"index"`
    ConditionType string `json:"condition_type"`
    Problem       string `json:"problem"`
}

type ValidationReport struct {
    Rule            string           `json:"rule"`
    Conditions      int              `json:"conditions"`
    ValidConditions int              `json:"valid_conditions"`
    FullySpecified  bool             `json:"fully_specified"`
    Issues          []ConditionIssue `json:"issues,omitempty"`
}

type schemaErrorResponse struct {
    Path   string `json:"path"`
    Attr   string `json:"attr"`
    Reason string `json:"reason"`
    Value  string `json:"value,omitempty"`
}

type EvaluateResponse struct {
    Rule   string `json:"rule"`
    Result bool   `json:"result"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

func writeBodyError(w http.ResponseWriter, err error) {
    var tooLarge *http.MaxBytesError
    if errors.As(err, &tooLarge) {
        http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
        return
    }
    http.Error(w, "invalid body", http.StatusBadRequest)
}

// readActivationCondition đọc body XML. Trả về false nếu đã ghi response lỗi.
func readActivationCondition(w http.ResponseWriter, r *http.Request) (*condition.ActivationCondition, bool) {
    body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
    if err != nil {
        writeBodyError(w, err)
        return nil, false
    }
    defer r.Body.Close()

    ac, err := condition.Parse(body)
    if err != nil {
        if se, ok := profxml.AsSchemaError(err); ok {
            slog.Warn("rejected activation condition", "path", se.Path, "attr", se.Attr, "reason", se.Reason)
            writeJSON(w, http.StatusUnprocessableEntity, schemaErrorResponse{
                Path:   se.Path,
                Attr:   se.Attr,
                Reason: string(se.Reason),
                Value:  se.Value,
            })
            return nil, false
        }
        http.Error(w, "malformed xml", http.StatusBadRequest)
        return nil, false
    }
    return ac, true
}

func actionIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
    id, err := uuid.Parse(chi.URLParam(r, "id"))
    if err != nil {
        http.Error(w, "invalid action id", http.StatusBadRequest)
        return uuid.Nil, false
    }
    return id, true
}

func ValidateHandler(cfg *config.Config) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        ac, ok := readActivationCondition(w, r)
        if !ok {
            return
        }

        report := ValidationReport{
            Rule:           string(ac.Rule),
            Conditions:     len(ac.Conditions),
            FullySpecified: ac.IsFullySpecified(),
        }
        for i, c := range ac.Conditions {
            switch {
            case !c.IsValid():
                report.Issues = append(report.Issues, ConditionIssue{Index: i, ConditionType: string(c.Kind()), Problem: "incomplete"})
                continue
            case cfg.Evaluation.StrictComparison && !condition.ComparisonKnown(c):
                report.Issues = append(report.Issues, ConditionIssue{Index: i, ConditionType: string(c.Kind()), Problem: "unsupported-comparison"})
            }
            report.ValidConditions++
        }

        writeJSON(w, http.StatusOK, report)
    }
}

func GetConditionHandler(st *store.ConditionStore) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        id, ok := actionIDParam(w, r)
        if !ok {
            return
        }

        ac, updatedAt, err := st.Load(r.Context(), id)
        if err != nil {
            writeStoreError(w, id, err)
            return
        }

        w.Header().Set("Content-Type", "application/xml")
        w.Header().Set("Last-Modified", updatedAt.UTC().Format(http.TimeFormat))
        enc := xml.NewEncoder(w)
        enc.Indent("", "  ")
        _ = enc.Encode(ac)
    }
}

func PutConditionHandler(st *store.ConditionStore) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        id, ok := actionIDParam(w, r)
        if !ok {
            return
        }
        ac, ok := readActivationCondition(w, r)
        if !ok {
            return
        }

        if err := st.Save(r.Context(), id, ac); err != nil {
            writeStoreError(w, id, err)
            return
        }
        w.WriteHeader(http.StatusNoContent)
    }
}

func DeleteConditionHandler(st *store.ConditionStore) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        id, ok := actionIDParam(w, r)
        if !ok {
            return
        }
        if err := st.Delete(r.Context(), id); err != nil {
            writeStoreError(w, id, err)
            return
        }
        w.WriteHeader(http.StatusNoContent)
    }
}

func EvaluateHandler(st *store.ConditionStore) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        id, ok := actionIDParam(w, r)
        if !ok {
            return
        }

        var req SnapshotRequest
        if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
            var tooLarge *http.MaxBytesError
            if errors.As(err, &tooLarge) {
                http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
                return
            }
            http.Error(w, "invalid snapshot", http.StatusBadRequest)
            return
        }
        oracle, err := req.Oracle()
        if err != nil {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }

        ac, _, err := st.Load(r.Context(), id)
        if err != nil {
            writeStoreError(w, id, err)
            return
        }

        writeJSON(w, http.StatusOK, EvaluateResponse{Rule: string(ac.Rule), Result: ac.Evaluate(oracle)})
    }
}

func writeStoreError(w http.ResponseWriter, id uuid.UUID, err error) {
    switch {
    case errors.Is(err, store.ErrNotFound):
        http.Error(w, "not found", http.StatusNotFound)
    case errors.Is(err, store.ErrInvalidCondition):
        http.Error(w, "invalid activation condition", http.StatusUnprocessableEntity)
    default:
        slog.Error("activation condition store failure", "action_id", id, "error", err)
        http.Error(w, "store error", http.StatusInternalServerError)
    }
}
