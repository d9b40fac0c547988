package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: ACADEMIC RECORDS
// Students, enrollments, grades, the grading scale, and the
// institution-wide academic policy row.
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE TABLE IF NOT EXISTS students (
    student_ref     TEXT PRIMARY KEY,
    first_name      TEXT NOT NULL,
    last_name       TEXT NOT NULL,
    entry_level     TEXT NOT NULL DEFAULT '',
    current_level   TEXT NOT NULL DEFAULT '',
    current_session TEXT NOT NULL DEFAULT '',
    program_code    TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS enrollments (
    id           UUID PRIMARY KEY,
    student_ref  TEXT NOT NULL REFERENCES students(student_ref),
    course_code  TEXT NOT NULL,
    course_title TEXT NOT NULL DEFAULT '',
    units        INTEGER NOT NULL,
    session      TEXT NOT NULL,
    semester     TEXT NOT NULL,
    created_at   TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_enrollments_student
    ON enrollments(student_ref, session, course_code);
CREATE INDEX IF NOT EXISTS idx_enrollments_student_course
    ON enrollments(student_ref, course_code);

CREATE TABLE IF NOT EXISTS grades (
    enrollment_id UUID PRIMARY KEY REFERENCES enrollments(id),
    letter        TEXT NOT NULL DEFAULT '',
    total_score   DOUBLE PRECISION NOT NULL DEFAULT 0,
    status        TEXT NOT NULL DEFAULT 'DRAFT'
);

CREATE TABLE IF NOT EXISTS grading_scale (
    letter    TEXT PRIMARY KEY,
    min_score DOUBLE PRECISION NOT NULL,
    max_score DOUBLE PRECISION NOT NULL,
    point     DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS academic_policy (
    id                               BOOLEAN PRIMARY KEY DEFAULT TRUE,
    repeat_policy                    TEXT NOT NULL DEFAULT 'ALL',
    require_approved_for_metrics     BOOLEAN NOT NULL DEFAULT FALSE,
    require_approved_for_exports     BOOLEAN NOT NULL DEFAULT FALSE,
    require_approved_for_transcripts BOOLEAN NOT NULL DEFAULT FALSE,
    CONSTRAINT academic_policy_single_row CHECK (id)
);
`

const migration001Down = `
DROP TABLE IF EXISTS academic_policy;
DROP TABLE IF EXISTS grading_scale;
DROP TABLE IF EXISTS grades;
DROP TABLE IF EXISTS enrollments;
DROP TABLE IF EXISTS students;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CURRICULUM
// Programs, curriculum courses, prerequisites, and classification
// thresholds.
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS programs (
    code                  TEXT PRIMARY KEY,
    name                  TEXT NOT NULL,
    min_units_to_graduate INTEGER NOT NULL DEFAULT 0,
    scheme                TEXT NOT NULL DEFAULT 'BSC'
);

CREATE TABLE IF NOT EXISTS curriculum_courses (
    program_code TEXT NOT NULL REFERENCES programs(code),
    course_code  TEXT NOT NULL,
    course_title TEXT NOT NULL DEFAULT '',
    units        INTEGER NOT NULL,
    level        TEXT NOT NULL,
    semester     TEXT NOT NULL,
    compulsory   BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (program_code, course_code)
);

CREATE INDEX IF NOT EXISTS idx_curriculum_level_semester
    ON curriculum_courses(program_code, level, semester);

CREATE TABLE IF NOT EXISTS prerequisites (
    program_code    TEXT NOT NULL,
    course_code     TEXT NOT NULL,
    required_course TEXT NOT NULL,
    PRIMARY KEY (program_code, course_code, required_course)
);

CREATE TABLE IF NOT EXISTS classification_thresholds (
    program_code TEXT NOT NULL REFERENCES programs(code),
    label        TEXT NOT NULL,
    min_cgpa     DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (program_code, label)
);
`

const migration002Down = `
DROP TABLE IF EXISTS classification_thresholds;
DROP TABLE IF EXISTS prerequisites;
DROP TABLE IF EXISTS curriculum_courses;
DROP TABLE IF EXISTS programs;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: VERIFICATION RECORDS
// The durable tamper-evidence store. payload_json is stored as raw
// bytes (not JSONB) so the digest input survives byte for byte.
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
CREATE TABLE IF NOT EXISTS verification_records (
    id               UUID PRIMARY KEY,
    code             TEXT NOT NULL UNIQUE,
    student_ref      TEXT NOT NULL,
    student_name     TEXT NOT NULL DEFAULT '',
    generated_at     TIMESTAMP WITH TIME ZONE NOT NULL,
    digest           TEXT NOT NULL DEFAULT '',
    institution_name TEXT NOT NULL DEFAULT '',
    verification_url TEXT NOT NULL DEFAULT '',
    payload_json     BYTEA,
    created_at       TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    expires_at       TIMESTAMP WITH TIME ZONE,
    revoked_at       TIMESTAMP WITH TIME ZONE
);

CREATE INDEX IF NOT EXISTS idx_verification_records_student
    ON verification_records(student_ref);
CREATE INDEX IF NOT EXISTS idx_verification_records_expires
    ON verification_records(expires_at);
`

const migration003Down = `
DROP TABLE IF EXISTS verification_records;
`
