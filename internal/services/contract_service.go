package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"gorent/internal/models"
	"gorent/internal/utils"
	"gorent/pkg/logger"
	"gorent/pkg/storage"
)

// ErrContractNotFound distinguishes "no document archived for this
// contract" from transport failures.
var ErrContractNotFound = errors.New("contract document not found")

// ErrEmptySignature rejects a signing attempt with no signature image
// before any network call is made.
var ErrEmptySignature = errors.New("signature is required")

// ContractService renders the rental agreement and keeps the signed copy
// in the document archive. One signed document per contract id: uploads
// overwrite, so re-signing replaces the previous copy.
type ContractService struct {
	archive storage.Provider
	logger  *logger.Logger
}

func NewContractService(archive storage.Provider, log *logger.Logger) *ContractService {
	return &ContractService{
		archive: archive,
		logger:  log,
	}
}

// ArchivePath is the fixed addressing convention for signed contracts.
func (s *ContractService) ArchivePath(contractID string) string {
	return fmt.Sprintf("%s/%s/%s", utils.ContractArchiveFolder, contractID, utils.ContractFileName)
}

// Render produces the single-page agreement PDF. Field order is fixed and
// the creation date comes from the booking, so rendering the same booking
// twice yields identical bytes.
func (s *ContractService) Render(booking *models.Booking, vehicle *models.Vehicle, signaturePNG []byte) ([]byte, error) {
	if len(signaturePNG) == 0 {
		return nil, ErrEmptySignature
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(booking.CreatedAt)
	pdf.SetModificationDate(booking.CreatedAt)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(20, 20, "Contratto di Noleggio Veicolo")

	pdf.SetFont("Helvetica", "", 11)
	line := 35.0
	writeLine := func(text string) {
		pdf.Text(20, line, text)
		line += 8
	}

	writeLine(fmt.Sprintf("Contratto ID: %s", booking.ContractID))
	writeLine(fmt.Sprintf("Data: %s", booking.CreatedAt.Format("02/01/2006")))
	writeLine(fmt.Sprintf("Veicolo: %s (%s)", vehicle.DisplayName(), vehicle.LicensePlate))
	writeLine(fmt.Sprintf("Periodo: %s - %s (%d giorni)",
		booking.CheckIn.Format("02/01/2006"), booking.CheckOut.Format("02/01/2006"), booking.Days))
	writeLine(fmt.Sprintf("Assicurazione: %s", booking.InsuranceTier))
	if booking.AirportDelivery {
		writeLine("Extra: consegna aeroporto")
	}
	if booking.BabySeat {
		writeLine("Extra: seggiolino bambino")
	}
	if booking.SnowChains {
		writeLine("Extra: catene da neve")
	}
	writeLine(fmt.Sprintf("Franchigia: EUR %.2f", booking.Deductible))
	writeLine(fmt.Sprintf("Totale: EUR %.2f", booking.TotalDue))

	pdf.Text(20, 90, "Firma cliente:")
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("signature", opts, bytes.NewReader(signaturePNG))
	pdf.ImageOptions("signature", 20, 95, 90, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render contract: %w", err)
	}

	return buf.Bytes(), nil
}

// Upload stores the signed document at the contract's archive path,
// replacing any previous version.
func (s *ContractService) Upload(ctx context.Context, contractID string, document []byte) error {
	path := s.ArchivePath(contractID)

	_, err := s.archive.Upload(ctx, &storage.UploadRequest{
		Key:         path,
		Reader:      bytes.NewReader(document),
		ContentType: utils.ContractContentType,
		Size:        int64(len(document)),
	})
	if err != nil {
		return fmt.Errorf("failed to archive contract %s: %w", contractID, err)
	}

	s.logger.WithContractID(contractID).Infof("contract archived at %s", path)
	return nil
}

// Download fetches the signed document, or ErrContractNotFound when none
// has been archived for this contract id.
func (s *ContractService) Download(ctx context.Context, contractID string) ([]byte, error) {
	resp, err := s.archive.Download(ctx, s.ArchivePath(contractID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to download contract %s: %w", contractID, err)
	}
	defer resp.Reader.Close()

	document, err := io.ReadAll(resp.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract %s: %w", contractID, err)
	}

	return document, nil
}

// Exists reports whether a signed document is retrievable for the
// contract id.
func (s *ContractService) Exists(ctx context.Context, contractID string) (bool, error) {
	return s.archive.Exists(ctx, s.ArchivePath(contractID))
}
