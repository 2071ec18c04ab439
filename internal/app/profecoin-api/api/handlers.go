package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/services"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/types"
)

const (
	defaultHistoryLimit = 5
	maxHistoryLimit     = 100

	rootMessage = "El servidor del proyecto ProfeCoin esta funcionando"
)

func (s *server) rootHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.RootResponse{Message: rootMessage, Status: "OK"})
	}
}

func (s *server) networkStatusHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := s.Reader.NetworkStatus(r.Context())
		if err != nil {
			s.writeCallError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func (s *server) totalSupplyHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		supply, err := s.Reader.TotalSupply(r.Context())
		if err != nil {
			s.writeCallError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, supply)
	}
}

func (s *server) tokenBalanceHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		balance, err := s.Reader.TokenBalance(r.Context(), mux.Vars(r)["address"])
		if err != nil {
			s.writeCallError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, balance)
	}
}

func (s *server) achievementBalanceHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		balance, err := s.Reader.AchievementBalance(r.Context(), mux.Vars(r)["address"])
		if err != nil {
			s.writeCallError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, balance)
	}
}

func (s *server) achievementOwnerHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := s.Reader.AchievementOwner(r.Context(), mux.Vars(r)["tokenId"])
		if err != nil {
			s.writeCallError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, owner)
	}
}

func (s *server) mintHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.MintRequest
		if err := decodeBody(w, r, &req); err != nil {
			s.writeInvalidBody(w, r, err)
			return
		}

		result, err := s.Writer.Mint(r.Context(), req)
		s.writeResult(w, r, types.OperationMint, result, err)
	}
}

func (s *server) awardHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AwardRequest
		if err := decodeBody(w, r, &req); err != nil {
			s.writeInvalidBody(w, r, err)
			return
		}

		result, err := s.Writer.Award(r.Context(), req)
		s.writeResult(w, r, types.OperationAward, result, err)
	}
}

func (s *server) updateURIHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateURIRequest
		if err := decodeBody(w, r, &req); err != nil {
			s.writeInvalidBody(w, r, err)
			return
		}

		result, err := s.Writer.UpdateAchievementURI(r.Context(), mux.Vars(r)["tokenId"], req)
		s.writeResult(w, r, types.OperationUpdateURI, result, err)
	}
}

func (s *server) transactionsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.History == nil {
			writeError(w, http.StatusNotFound, "El historial de transacciones no esta habilitado.")
			return
		}

		limit := defaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				s.metrics.errors.WithLabelValues(string(services.KindValidation)).Inc()
				writeError(w, http.StatusBadRequest, "El parametro 'limit' debe ser un entero positivo.")
				return
			}
			limit = min(parsed, maxHistoryLimit)
		}

		records, err := s.History.GetRecentWriteRecords(r.Context(), limit)
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("failed to read write journal")
			s.metrics.errors.WithLabelValues(string(services.KindChainCall)).Inc()
			writeError(w, http.StatusInternalServerError, "Ocurrio un error en el servidor.")
			return
		}

		writeJSON(w, http.StatusOK, types.TransactionHistory{Transactions: records})
	}
}

func (s *server) writeResult(w http.ResponseWriter, r *http.Request, operation string, result types.WriteResult, err error) {
	s.metrics.writes.WithLabelValues(operation, result.Status).Inc()

	if err != nil || !result.Succeeded() {
		kind := services.KindOf(err)
		s.metrics.errors.WithLabelValues(string(kind)).Inc()
		hlog.FromRequest(r).Warn().Err(err).Str("operation", operation).Str("kind", string(kind)).Msg("write rejected")
		writeJSON(w, statusForKind(kind), result)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) writeCallError(w http.ResponseWriter, r *http.Request, err error) {
	kind := services.KindOf(err)
	s.metrics.errors.WithLabelValues(string(kind)).Inc()

	message := "Ocurrio un error en el servidor."
	var callErr *services.CallError
	if errors.As(err, &callErr) && callErr.Message != "" {
		message = callErr.Message
	}

	hlog.FromRequest(r).Warn().Err(err).Str("kind", string(kind)).Msg("read rejected")
	writeError(w, statusForKind(kind), message)
}

func (s *server) writeInvalidBody(w http.ResponseWriter, r *http.Request, err error) {
	s.metrics.errors.WithLabelValues(string(services.KindValidation)).Inc()
	hlog.FromRequest(r).Warn().Err(err).Msg("invalid request body")
	writeError(w, http.StatusBadRequest, messageInvalidBody)
}
