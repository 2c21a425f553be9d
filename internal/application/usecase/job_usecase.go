package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/heliosuite-api/internal/application/audit"
	"github.com/jhoicas/heliosuite-api/internal/application/authz"
	"github.com/jhoicas/heliosuite-api/internal/application/dto"
	"github.com/jhoicas/heliosuite-api/internal/application/numbering"
	"github.com/jhoicas/heliosuite-api/internal/application/validation"
	"github.com/jhoicas/heliosuite-api/internal/domain"
	"github.com/jhoicas/heliosuite-api/internal/domain/entity"
	"github.com/jhoicas/heliosuite-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// JobUseCase trabajos de instalación. Mantiene los totales del cliente (cantidad de trabajos y
// facturación de los completados) recalculándolos desde cero cuando cambian.
type JobUseCase struct {
	jobs    repository.Repository[entity.Job]
	clients repository.Repository[entity.Client]
	numbers numbering.Generator
	Deps
}

// NewJobUseCase construye el caso de uso.
func NewJobUseCase(jobs repository.Repository[entity.Job], clients repository.Repository[entity.Client], numbers numbering.Generator, deps Deps) *JobUseCase {
	return &JobUseCase{jobs: jobs, clients: clients, numbers: numbers, Deps: deps}
}

// Create da de alta el trabajo con número JOB-YYYYMM-NNNN, estado pending y prioridad medium por defecto.
// Un vendedor que no indica vendedor asignado queda como responsable del trabajo.
func (uc *JobUseCase) Create(ctx context.Context, caller entity.Principal, in dto.CreateJobRequest) (*entity.Job, error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessJobData); err != nil {
		return nil, err
	}
	if caller.Role == entity.RoleSalesRep && in.AssignedSalesRep == "" {
		in.AssignedSalesRep = caller.ID
	}
	own := entity.Ownership{AssignedSalesRep: in.AssignedSalesRep, AssignedTechnician: in.AssignedTechnician}
	if err := uc.Guard.AuthorizeEntity(caller, authz.EntityJob, own); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	client, err := uc.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, notFound("cliente")
	}
	number, err := uc.numbers.Next(ctx, numbering.JobNumber(uc.now()))
	if err != nil {
		return nil, fmt.Errorf("generar número de trabajo: %w", err)
	}

	job := &entity.Job{
		Base:               entity.Base{ID: uuid.New().String()},
		JobNumber:          number,
		Title:              in.Title,
		Description:        in.Description,
		ClientID:           in.ClientID,
		Status:             entity.JobStatusPending,
		Priority:           in.Priority,
		AssignedTechnician: in.AssignedTechnician,
		AssignedSalesRep:   in.AssignedSalesRep,
		ScheduledDate:      in.ScheduledDate,
		EstimatedDuration:  in.EstimatedDuration,
		SiteAddress:        in.SiteAddress.ToEntity(),
		SystemSize:         in.SystemSize,
		PanelCount:         in.PanelCount,
		InverterType:       in.InverterType,
		RoofType:           in.RoofType,
		EstimatedCost:      in.EstimatedCost,
		QuotedPrice:        in.QuotedPrice,
	}
	if job.Priority == "" {
		job.Priority = entity.PriorityMedium
	}
	id, err := uc.jobs.Create(ctx, job, caller.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.recomputeClientTotals(ctx, job.ClientID, caller.ID); err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceJob, id)
	meta["jobNumber"] = number
	meta["clientId"] = job.ClientID
	meta["jobStatus"] = job.Status
	_, err = uc.Audit.Log(ctx, entity.LogJobCreated, caller.ID,
		fmt.Sprintf("Trabajo creado: %s para %s", number, client.FullName()), meta)
	return job, logged("job.create", id, err)
}

// Get devuelve el trabajo si quien llama tiene acceso.
func (uc *JobUseCase) Get(ctx context.Context, caller entity.Principal, id string) (*entity.Job, error) {
	job, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.Authorize(caller, entity.PermAccessJobData); err != nil {
		return nil, err
	}
	if err := uc.Guard.AuthorizeEntity(caller, authz.EntityJob, job.Ownership()); err != nil {
		return nil, err
	}
	return job, nil
}

// Update aplica el parche. Las fechas reales deben quedar en orden (inicio ≤ fin).
func (uc *JobUseCase) Update(ctx context.Context, caller entity.Principal, id string, in dto.UpdateJobRequest) (*entity.Job, error) {
	job, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, job); err != nil {
		return nil, err
	}
	msgs := uc.Validator.Collect(in)
	start, end := job.ActualStartDate, job.ActualEndDate
	if in.ActualStartDate != nil {
		start = in.ActualStartDate
	}
	if in.ActualEndDate != nil {
		end = in.ActualEndDate
	}
	if start != nil && end != nil && end.Before(*start) {
		msgs = append(msgs, "actualEndDate: no puede ser anterior a actualStartDate")
	}
	if err := validation.Result(msgs); err != nil {
		return nil, err
	}
	return uc.apply(ctx, caller, job, in, "Trabajo actualizado")
}

// UpdateStatus cambia el estado. in_progress fija actualStartDate y completed fija actualEndDate
// si aún no tenían valor; completar (o salir de completed) recalcula los totales del cliente.
// Sin cambios no escribe ni registra; job_completed solo se emite al entrar en completed.
func (uc *JobUseCase) UpdateStatus(ctx context.Context, caller entity.Principal, id string, in dto.JobStatusRequest) (*entity.Job, error) {
	job, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, job); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	now := uc.now()
	patch := repository.Document{"status": in.Status}
	switch in.Status {
	case entity.JobStatusInProgress:
		if job.ActualStartDate == nil {
			patch["actualStartDate"] = now
		}
	case entity.JobStatusCompleted:
		if job.ActualEndDate == nil {
			patch["actualEndDate"] = now
		}
	}
	changes, err := audit.Diff(job, patch)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return job, nil
	}
	if err := uc.jobs.Update(ctx, id, patch, caller.ID); err != nil {
		return nil, err
	}
	completing := in.Status == entity.JobStatusCompleted && job.Status != entity.JobStatusCompleted
	if changes.Has("status") && (in.Status == entity.JobStatusCompleted || job.Status == entity.JobStatusCompleted) {
		if err := uc.recomputeClientTotals(ctx, job.ClientID, caller.ID); err != nil {
			return nil, err
		}
	}
	updated, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	meta := audit.Target(entity.ResourceJob, id)
	meta["oldStatus"] = job.Status
	meta["newStatus"] = in.Status
	desc := fmt.Sprintf("Estado del trabajo %s: %s -> %s", job.JobNumber, job.Status, in.Status)
	if in.Notes != "" {
		meta["notes"] = in.Notes
		desc += " - " + in.Notes
	}
	if _, err := uc.Audit.Log(ctx, entity.LogJobUpdated, caller.ID, desc, meta); err != nil {
		return updated, logged("job.status", id, err)
	}
	if completing {
		done := audit.Target(entity.ResourceJob, id)
		done["completionDate"] = now
		if job.FinalPrice != nil {
			done["finalPrice"] = job.FinalPrice.String()
		}
		_, err = uc.Audit.Log(ctx, entity.LogJobCompleted, caller.ID, fmt.Sprintf("Trabajo completado: %s", job.JobNumber), done)
	}
	return updated, logged("job.status", id, err)
}

// AssignTechnician asigna (o reasigna) el técnico del trabajo.
func (uc *JobUseCase) AssignTechnician(ctx context.Context, caller entity.Principal, id string, in dto.AssignTechnicianRequest) (*entity.Job, error) {
	job, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, job); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	patch := repository.Document{"assignedTechnician": in.TechnicianID}
	changes, err := audit.Diff(job, patch)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return job, nil
	}
	if err := uc.jobs.Update(ctx, id, patch, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceJob, id)
	meta["oldTechnician"] = job.AssignedTechnician
	meta["newTechnician"] = in.TechnicianID
	_, err = uc.Audit.Log(ctx, entity.LogJobUpdated, caller.ID, fmt.Sprintf("Técnico asignado al trabajo %s", job.JobNumber), meta)
	return updated, logged("job.assign", id, err)
}

// Schedule programa el trabajo y lo pasa a scheduled.
func (uc *JobUseCase) Schedule(ctx context.Context, caller entity.Principal, id string, in dto.ScheduleJobRequest) (*entity.Job, error) {
	job, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, job); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	patch := repository.Document{"scheduledDate": in.ScheduledDate.UTC(), "status": entity.JobStatusScheduled}
	if in.EstimatedDuration != nil {
		patch["estimatedDuration"] = *in.EstimatedDuration
	}
	changes, err := audit.Diff(job, patch)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return job, nil
	}
	if err := uc.jobs.Update(ctx, id, patch, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceJob, id)
	meta["scheduledDate"] = in.ScheduledDate.UTC()
	if in.EstimatedDuration != nil {
		meta["estimatedDuration"] = *in.EstimatedDuration
	}
	_, err = uc.Audit.Log(ctx, entity.LogJobUpdated, caller.ID,
		fmt.Sprintf("Trabajo %s programado para %s", job.JobNumber, in.ScheduledDate.Format("2006-01-02")), meta)
	return updated, logged("job.schedule", id, err)
}

// AddFieldWork registra notas de campo y agrega fotos a las existentes. Sin datos no escribe nada.
func (uc *JobUseCase) AddFieldWork(ctx context.Context, caller entity.Principal, id string, in dto.FieldWorkRequest) (*entity.Job, error) {
	job, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, job); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	patch := repository.Document{}
	if in.FieldNotes != "" {
		patch["fieldNotes"] = in.FieldNotes
	}
	if len(in.Photos) > 0 {
		patch["photos"] = append(append([]string{}, job.Photos...), in.Photos...)
	}
	if len(in.CompletionPhotos) > 0 {
		patch["completionPhotos"] = append(append([]string{}, job.CompletionPhotos...), in.CompletionPhotos...)
	}
	if len(patch) == 0 {
		return job, nil
	}
	if err := uc.jobs.Update(ctx, id, patch, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceJob, id)
	meta["fieldNotesAdded"] = in.FieldNotes != ""
	meta["photosAdded"] = len(in.Photos)
	meta["completionPhotosAdded"] = len(in.CompletionPhotos)
	_, err = uc.Audit.Log(ctx, entity.LogJobUpdated, caller.ID, fmt.Sprintf("Trabajo de campo agregado a %s", job.JobNumber), meta)
	return updated, logged("job.field_work", id, err)
}

// UpdatePricing actualiza costos y precios; en un trabajo completado recalcula la facturación del cliente.
func (uc *JobUseCase) UpdatePricing(ctx context.Context, caller entity.Principal, id string, in dto.JobPricingRequest) (*entity.Job, error) {
	job, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, job); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	changes, err := audit.Diff(job, in)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return job, nil
	}
	if err := uc.jobs.Update(ctx, id, in, caller.ID); err != nil {
		return nil, err
	}
	if job.Status == entity.JobStatusCompleted && changes.Has("finalPrice") {
		if err := uc.recomputeClientTotals(ctx, job.ClientID, caller.ID); err != nil {
			return nil, err
		}
	}
	updated, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	_, err = uc.Audit.LogChanges(ctx, entity.LogJobUpdated, caller.ID,
		fmt.Sprintf("Precios actualizados del trabajo %s", job.JobNumber), changes, audit.Target(entity.ResourceJob, id))
	return updated, logged("job.pricing", id, err)
}

// RecordFeedback guarda la calificación (1 a 5), el comentario y la firma del cliente.
func (uc *JobUseCase) RecordFeedback(ctx context.Context, caller entity.Principal, id string, in dto.FeedbackRequest) (*entity.Job, error) {
	job, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizeMutation(caller, job); err != nil {
		return nil, err
	}
	if err := uc.Validator.Struct(in); err != nil {
		return nil, err
	}
	patch := repository.Document{"customerRating": in.Rating}
	if in.Feedback != "" {
		patch["customerFeedback"] = in.Feedback
	}
	if in.CustomerSignature != "" {
		patch["customerSignature"] = in.CustomerSignature
	}
	changes, err := audit.Diff(job, patch)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return job, nil
	}
	if err := uc.jobs.Update(ctx, id, patch, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	meta := audit.Target(entity.ResourceJob, id)
	meta["customerRating"] = in.Rating
	meta["feedbackProvided"] = in.Feedback != ""
	meta["signatureProvided"] = in.CustomerSignature != ""
	_, err = uc.Audit.Log(ctx, entity.LogJobUpdated, caller.ID,
		fmt.Sprintf("Calificación del cliente para %s: %d/5", job.JobNumber, in.Rating), meta)
	return updated, logged("job.feedback", id, err)
}

// TechnicianWorkload trabajos activos, programados y completados en el mes de un técnico.
// Un técnico consulta su propia carga; la de otros exige access-all-data.
func (uc *JobUseCase) TechnicianWorkload(ctx context.Context, caller entity.Principal, technicianID string) (*dto.TechnicianWorkload, error) {
	if !caller.IsSelf(technicianID) {
		if err := uc.Guard.Authorize(caller, entity.PermAccessAllData); err != nil {
			return nil, err
		}
	}
	jobs, err := uc.jobs.Query(ctx, repository.NewQuery().
		Where("assignedTechnician", repository.OpEqual, technicianID).
		Order("createdAt", repository.Asc))
	if err != nil {
		return nil, err
	}
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	out := &dto.TechnicianWorkload{
		TechnicianID:       technicianID,
		ActiveJobs:         []*entity.Job{},
		ScheduledJobs:      []*entity.Job{},
		CompletedThisMonth: []*entity.Job{},
	}
	for _, j := range jobs {
		switch j.Status {
		case entity.JobStatusInProgress:
			out.ActiveJobs = append(out.ActiveJobs, j)
		case entity.JobStatusScheduled:
			out.ActiveJobs = append(out.ActiveJobs, j)
			if j.ScheduledDate != nil && !j.ScheduledDate.Before(now) {
				out.ScheduledJobs = append(out.ScheduledJobs, j)
			}
		case entity.JobStatusCompleted:
			if j.ActualEndDate != nil && !j.ActualEndDate.Before(monthStart) && j.ActualEndDate.Before(monthEnd) {
				out.CompletedThisMonth = append(out.CompletedThisMonth, j)
			}
		}
		if j.ActualStartDate != nil && j.ActualEndDate != nil {
			out.TotalHours += j.ActualEndDate.Sub(*j.ActualStartDate).Hours()
		} else {
			out.TotalHours += j.EstimatedDuration
		}
	}
	return out, nil
}

// ByDateRange trabajos cuyo campo de fecha (scheduledDate, actualStartDate o actualEndDate) cae en [from, to].
func (uc *JobUseCase) ByDateRange(ctx context.Context, caller entity.Principal, field string, from, to time.Time) ([]*entity.Job, error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessJobData); err != nil {
		return nil, err
	}
	switch field {
	case "":
		field = "scheduledDate"
	case "scheduledDate", "actualStartDate", "actualEndDate":
	default:
		return nil, domain.NewError(domain.ErrInvalidArgument, fmt.Sprintf("campo de fecha inválido: %q", field))
	}
	jobs, err := uc.jobs.Query(ctx, repository.NewQuery().
		Where(field, repository.OpGreaterEqual, from.UTC()).
		Where(field, repository.OpLessEqual, to.UTC()).
		Order(field, repository.Asc))
	if err != nil {
		return nil, err
	}
	return uc.visibleOnly(caller, jobs), nil
}

// List página de trabajos visibles para quien llama.
func (uc *JobUseCase) List(ctx context.Context, caller entity.Principal, status string, req dto.PageRequest) (*dto.ListResponse[entity.Job], error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessJobData); err != nil {
		return nil, err
	}
	req.DefaultPage()
	q := repository.NewQuery()
	if status != "" {
		q = q.Where("status", repository.OpEqual, status)
	}
	p, err := uc.jobs.QueryPaginated(ctx, q.Order("createdAt", repository.Desc), req.Limit, req.Cursor)
	if err != nil {
		return nil, err
	}
	return toList(p, req.Limit, func(j *entity.Job) bool {
		return authz.CanAccessEntity(caller, authz.EntityJob, j.Ownership())
	}), nil
}

// Search filtros conjuntivos. El rango de valor aplica a finalPrice o, si no hay, a quotedPrice.
func (uc *JobUseCase) Search(ctx context.Context, caller entity.Principal, f dto.JobSearchRequest) ([]*entity.Job, error) {
	if err := uc.Guard.Authorize(caller, entity.PermAccessJobData); err != nil {
		return nil, err
	}
	q := repository.NewQuery()
	if f.Status != "" {
		q = q.Where("status", repository.OpEqual, f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority", repository.OpEqual, f.Priority)
	}
	if f.ClientID != "" {
		q = q.Where("clientId", repository.OpEqual, f.ClientID)
	}
	if f.AssignedTechnician != "" {
		q = q.Where("assignedTechnician", repository.OpEqual, f.AssignedTechnician)
	}
	if f.AssignedSalesRep != "" {
		q = q.Where("assignedSalesRep", repository.OpEqual, f.AssignedSalesRep)
	}
	jobs, err := uc.jobs.Query(ctx, q.Order("createdAt", repository.Desc))
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Job, 0, len(jobs))
	for _, j := range uc.visibleOnly(caller, jobs) {
		if !matchesTerm(f.Term, j.JobNumber, j.Title, j.Description) {
			continue
		}
		if f.From != nil && (j.ScheduledDate == nil || j.ScheduledDate.Before(*f.From)) {
			continue
		}
		if f.To != nil && (j.ScheduledDate == nil || j.ScheduledDate.After(*f.To)) {
			continue
		}
		if f.MinValue != nil || f.MaxValue != nil {
			v := jobValue(j)
			if v == nil || (f.MinValue != nil && v.LessThan(*f.MinValue)) || (f.MaxValue != nil && v.GreaterThan(*f.MaxValue)) {
				continue
			}
		}
		out = append(out, j)
	}
	return out, nil
}

// Stats conteos, facturación (finalPrice), tasa de completados y calificación promedio.
func (uc *JobUseCase) Stats(ctx context.Context, caller entity.Principal) (*dto.JobStats, error) {
	if err := uc.Guard.Authorize(caller, entity.PermViewReports); err != nil {
		return nil, err
	}
	return uc.stats(ctx)
}

func (uc *JobUseCase) stats(ctx context.Context) (*dto.JobStats, error) {
	jobs, err := uc.jobs.Query(ctx, repository.NewQuery())
	if err != nil {
		return nil, err
	}
	out := &dto.JobStats{
		Total:        len(jobs),
		ByStatus:     make(map[string]int),
		ByPriority:   make(map[string]int),
		TotalRevenue: decimal.Zero,
	}
	completed, rated, ratingSum := 0, 0, 0
	for _, j := range jobs {
		out.ByStatus[j.Status]++
		out.ByPriority[j.Priority]++
		if j.FinalPrice != nil {
			out.TotalRevenue = out.TotalRevenue.Add(*j.FinalPrice)
		}
		if j.Status == entity.JobStatusCompleted {
			completed++
		}
		if j.CustomerRating > 0 {
			rated++
			ratingSum += j.CustomerRating
		}
		out.TotalSystemSizeKW += j.SystemSize
	}
	out.AverageJobValue = average(out.TotalRevenue, len(jobs))
	if len(jobs) > 0 {
		out.CompletionRate = float64(completed) / float64(len(jobs)) * 100
	}
	if rated > 0 {
		out.AverageRating = float64(ratingSum) / float64(rated)
	}
	return out, nil
}

// RevenueSince suma finalPrice de los trabajos completados desde start.
func (uc *JobUseCase) RevenueSince(ctx context.Context, caller entity.Principal, start time.Time) (decimal.Decimal, error) {
	if err := uc.Guard.Authorize(caller, entity.PermViewReports); err != nil {
		return decimal.Zero, err
	}
	jobs, err := uc.jobs.Query(ctx, repository.NewQuery().
		Where("status", repository.OpEqual, entity.JobStatusCompleted).
		Where("actualEndDate", repository.OpGreaterEqual, start))
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, j := range jobs {
		if j.FinalPrice != nil {
			total = total.Add(*j.FinalPrice)
		}
	}
	return total, nil
}

// Activity historial del trabajo.
func (uc *JobUseCase) Activity(ctx context.Context, caller entity.Principal, id string, limit int) ([]*entity.ActivityLog, error) {
	if _, err := uc.Get(ctx, caller, id); err != nil {
		return nil, err
	}
	return uc.Audit.ByResource(ctx, id, entity.ResourceJob, limit)
}

// recomputeClientTotals totalJobs cuenta todos los trabajos del cliente; totalRevenue suma
// finalPrice de los completados.
func (uc *JobUseCase) recomputeClientTotals(ctx context.Context, clientID, actorID string) error {
	jobs, err := uc.jobs.Query(ctx, repository.NewQuery().Where("clientId", repository.OpEqual, clientID))
	if err != nil {
		return err
	}
	revenue := decimal.Zero
	for _, j := range jobs {
		if j.Status == entity.JobStatusCompleted && j.FinalPrice != nil {
			revenue = revenue.Add(*j.FinalPrice)
		}
	}
	patch := repository.Document{"totalJobs": len(jobs), "totalRevenue": revenue}
	if err := uc.clients.Update(ctx, clientID, patch, actorID); err != nil {
		return fmt.Errorf("actualizar totales del cliente: %w", err)
	}
	return nil
}

func (uc *JobUseCase) load(ctx context.Context, id string) (*entity.Job, error) {
	job, err := uc.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, notFound("trabajo")
	}
	return job, nil
}

func (uc *JobUseCase) authorizeMutation(caller entity.Principal, job *entity.Job) error {
	if err := uc.Guard.Authorize(caller, entity.PermAccessJobData); err != nil {
		return err
	}
	return uc.Guard.AuthorizeEntity(caller, authz.EntityJob, job.Ownership())
}

func (uc *JobUseCase) visibleOnly(caller entity.Principal, jobs []*entity.Job) []*entity.Job {
	out := make([]*entity.Job, 0, len(jobs))
	for _, j := range jobs {
		if authz.CanAccessEntity(caller, authz.EntityJob, j.Ownership()) {
			out = append(out, j)
		}
	}
	return out
}

// apply persiste el parche y registra job_updated si hubo cambios.
func (uc *JobUseCase) apply(ctx context.Context, caller entity.Principal, job *entity.Job, patch any, what string) (*entity.Job, error) {
	changes, err := audit.Diff(job, patch)
	if err != nil {
		return nil, err
	}
	if changes.Empty() {
		return job, nil
	}
	if err := uc.jobs.Update(ctx, job.ID, patch, caller.ID); err != nil {
		return nil, err
	}
	updated, err := uc.load(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	_, err = uc.Audit.LogChanges(ctx, entity.LogJobUpdated, caller.ID,
		fmt.Sprintf("%s: %s", what, job.JobNumber), changes, audit.Target(entity.ResourceJob, job.ID))
	return updated, logged("job.update", job.ID, err)
}

func jobValue(j *entity.Job) *decimal.Decimal {
	if j.FinalPrice != nil {
		return j.FinalPrice
	}
	return j.QuotedPrice
}
