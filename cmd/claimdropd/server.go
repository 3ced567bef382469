package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/echa/log"

	"github.com/mantra-chain/claimdrop-core/bigmath"
	"github.com/mantra-chain/claimdrop-core/claimdrop"
)

// newRouter builds the HTTP query surface spec.md §6 lists (campaign,
// allocations, claims, claimed total, blacklist, authorized wallets,
// ownership) as GET routes, plus the single mutating POST /claim route,
// the demo host's transport for an otherwise transport-agnostic core.
func newRouter(k *claimdrop.Keeper) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/campaign", handleCampaign(k)).Methods(http.MethodGet)
	r.HandleFunc("/allocations", handleAllocations(k)).Methods(http.MethodGet)
	r.HandleFunc("/claims", handleClaims(k)).Methods(http.MethodGet)
	r.HandleFunc("/claimed", handleClaimedTotal(k)).Methods(http.MethodGet)
	r.HandleFunc("/blacklist/{address}", handleIsBlacklisted(k)).Methods(http.MethodGet)
	r.HandleFunc("/authorized", handleAuthorizedWallets(k)).Methods(http.MethodGet)
	r.HandleFunc("/owner", handleOwnership(k)).Methods(http.MethodGet)
	r.HandleFunc("/claim", handleClaim(k)).Methods(http.MethodPost)
	return r
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("claimdropd: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if cerr, ok := err.(*claimdrop.Error); ok {
		switch cerr.Kind {
		case claimdrop.KindUnauthorized, claimdrop.KindAddressBlacklisted:
			status = http.StatusForbidden
		case claimdrop.KindNoAllocationFound, claimdrop.KindCampaignError:
			status = http.StatusNotFound
		default:
			status = http.StatusBadRequest
		}
	}
	http.Error(w, err.Error(), status)
}

func pageParams(r *http.Request) (cursor string, limit int) {
	q := r.URL.Query()
	cursor = q.Get("cursor")
	limit = 100
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	return cursor, limit
}

func handleCampaign(k *claimdrop.Keeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaign, err := k.GetCampaign()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, campaign)
	}
}

func handleAllocations(k *claimdrop.Keeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, limit := pageParams(r)
		entries, next, err := k.ListAllocations(cursor, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"entries": entries, "next_cursor": next})
	}
}

func handleClaims(k *claimdrop.Keeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, limit := pageParams(r)
		entries, next, err := k.ListClaims(cursor, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"entries": entries, "next_cursor": next})
	}
}

func handleClaimedTotal(k *claimdrop.Keeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := k.ClaimedTotal()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, total)
	}
}

func handleIsBlacklisted(k *claimdrop.Keeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := mux.Vars(r)["address"]
		blacklisted, err := k.IsBlacklisted(address)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]bool{"blacklisted": blacklisted})
	}
}

func handleAuthorizedWallets(k *claimdrop.Keeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, limit := pageParams(r)
		addresses, next, err := k.ListAuthorizedWallets(cursor, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"addresses": addresses, "next_cursor": next})
	}
}

func handleOwnership(k *claimdrop.Keeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"owner": k.Ownership()})
	}
}

// claimRequest is the POST /claim wire payload: sender and receiver
// default to the same address for a self-claim; Amount is nil to
// claim everything currently vested (spec.md §4.4 "requested amount
// omitted means claim the maximum available").
type claimRequest struct {
	Sender   string          `json:"sender"`
	Receiver string          `json:"receiver"`
	Amount   *bigmath.Amount `json:"amount,omitempty"`
}

// handleClaim is the only mutating route this demo host exposes: it
// decodes a claim request, runs it through the Keeper, and audits the
// result the way every state-changing call should (logMutation).
func handleClaim(k *claimdrop.Keeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req claimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}
		if req.Receiver == "" {
			req.Receiver = req.Sender
		}

		result, err := k.Claim(req.Sender, req.Receiver, req.Amount)
		logMutation(result, err)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, result)
	}
}
